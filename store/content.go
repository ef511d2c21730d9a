package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/inkpost/blog-backend/models"
	"gorm.io/gorm"
)

// ContentStore owns posts, tags and the post-tag relation. Multi-statement
// writes (post row plus tag links) run inside a single transaction so a
// concurrent reader never observes a post without its tags.
type ContentStore struct {
	db *gorm.DB
}

func NewContentStore(db *gorm.DB) *ContentStore {
	return &ContentStore{db: db}
}

// PostInput carries the writable fields of a post. Tags is the full desired
// tag set by name; duplicates are collapsed.
type PostInput struct {
	Title     string
	Excerpt   string
	Content   string
	Date      string
	Tags      []string
	Published bool
}

func tagsByName(db *gorm.DB) *gorm.DB {
	return db.Order("tags.name ASC")
}

// ListPublished returns published posts ordered by date descending, tags
// attached. The content body is left empty; list views only need excerpt
// and metadata.
func (s *ContentStore) ListPublished(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Omit("content").
		Preload("Tags", tagsByName).
		Where("published = ?", true).
		Order("date DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return posts, nil
}

// ListAll returns every post including drafts, same ordering, for admin
// callers.
func (s *ContentStore) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Preload("Tags", tagsByName).
		Order("date DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	return posts, nil
}

// GetBySlug returns a published post with tags and full content.
func (s *ContentStore) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Tags", tagsByName).
		Where("slug = ? AND published = ?", slug, true).
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post by slug: %w", err)
	}
	return &post, nil
}

// GetWithTags returns a post by id regardless of published state.
func (s *ContentStore) GetWithTags(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Tags", tagsByName).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// Create derives the slug from the title and persists the post together with
// its tag links. Tags are created lazily by name. New posts start published,
// matching the admin editor's expectations; drafts are made by unpublishing.
func (s *ContentStore) Create(ctx context.Context, authorID int64, in PostInput) (*models.Post, error) {
	slug := Slugify(in.Title)
	post := models.Post{
		Title:     in.Title,
		Slug:      slug,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Date:      in.Date,
		AuthorID:  authorID,
		Published: true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Post
		err := tx.Select("id").Where("slug = ?", slug).First(&existing).Error
		if err == nil {
			return ErrSlugConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check slug: %w", err)
		}

		if err := tx.Create(&post).Error; err != nil {
			// The unique index backstops a racing create with the same slug.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlugConflict
			}
			return fmt.Errorf("insert post: %w", err)
		}

		tags, err := upsertTags(tx, in.Tags)
		if err != nil {
			return err
		}
		if len(tags) > 0 {
			if err := tx.Model(&post).Association("Tags").Append(tags); err != nil {
				return fmt.Errorf("link tags: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetWithTags(ctx, post.ID)
}

// Update recomputes the slug from the (possibly new) title, replaces the
// entire tag-link set and bumps modified_at. created_at is never touched.
func (s *ContentStore) Update(ctx context.Context, id int64, in PostInput) (*models.Post, error) {
	slug := Slugify(in.Title)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}

		var conflicting models.Post
		err := tx.Select("id").Where("slug = ? AND id <> ?", slug, id).First(&conflicting).Error
		if err == nil {
			return ErrSlugConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check slug: %w", err)
		}

		updates := map[string]interface{}{
			"title":     in.Title,
			"slug":      slug,
			"excerpt":   in.Excerpt,
			"content":   in.Content,
			"date":      in.Date,
			"published": in.Published,
		}
		if err := tx.Model(&post).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSlugConflict
			}
			return fmt.Errorf("update post: %w", err)
		}

		tags, err := upsertTags(tx, in.Tags)
		if err != nil {
			return err
		}
		// Old links are dropped wholesale and the new set inserted; tag rows
		// themselves are kept even when orphaned.
		if len(tags) == 0 {
			if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
				return fmt.Errorf("clear tags: %w", err)
			}
		} else if err := tx.Model(&post).Association("Tags").Replace(tags); err != nil {
			return fmt.Errorf("replace tags: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetWithTags(ctx, id)
}

// Delete removes the post and its tag links. Tags persist as vocabulary.
func (s *ContentStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("unlink tags: %w", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// upsertTags ensures a tag row exists for each distinct name and returns the
// rows in input order.
func upsertTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]bool, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		var tag models.Tag
		err := tx.Where("name = ?", name).FirstOrCreate(&tag, models.Tag{Name: name}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent writer introduced the tag between lookup and
			// insert; the row exists now, so take it.
			err = tx.Where("name = ?", name).First(&tag).Error
		}
		if err != nil {
			return nil, fmt.Errorf("upsert tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
