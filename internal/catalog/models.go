// Package catalog holds the read side of the entities the composition engine
// links to: product categories, pages, blog posts and their categories,
// uploaded media and products. Their CRUD screens live elsewhere.
package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Category is a product category. Roots have no parent (or the zero id).
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name        string     `bun:"name,notnull" json:"name"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	ParentID    *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	SortOrder   int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	Description string     `bun:"description" json:"description,omitempty"`
	ImageID     *uuid.UUID `bun:"image_id,type:uuid" json:"image_id,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// IsRoot reports whether c sits at the top of the category tree.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == uuid.Nil
}

type Page struct {
	bun.BaseModel `bun:"table:pages,alias:pg"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Title     string    `bun:"title,notnull" json:"title"`
	Slug      string    `bun:"slug,notnull" json:"slug"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

type Post struct {
	bun.BaseModel `bun:"table:posts,alias:po"`

	ID          uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Title       string     `bun:"title,notnull" json:"title"`
	Slug        string     `bun:"slug,notnull" json:"slug"`
	CategoryID  *uuid.UUID `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	Published   bool       `bun:"published,notnull,default:false" json:"published"`
	PublishedAt *time.Time `bun:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

type PostCategory struct {
	bun.BaseModel `bun:"table:post_categories,alias:pc"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name      string     `bun:"name,notnull" json:"name"`
	Slug      string     `bun:"slug,notnull" json:"slug"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	SortOrder int        `bun:"sort_order,notnull,default:0" json:"sort_order"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func (c *PostCategory) IsRoot() bool {
	return c.ParentID == nil || *c.ParentID == uuid.Nil
}

// Image is an uploaded picture. Files are served from the uploads directory.
type Image struct {
	bun.BaseModel `bun:"table:images,alias:img"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Filename  string    `bun:"filename,notnull" json:"filename"`
	Alt       string    `bun:"alt" json:"alt,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Video is an uploaded clip, served from the videos sub-directory.
type Video struct {
	bun.BaseModel `bun:"table:videos,alias:vid"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Filename  string    `bun:"filename,notnull" json:"filename"`
	Title     string    `bun:"title" json:"title,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`

	ID         uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name       string     `bun:"name,notnull" json:"name"`
	Slug       string     `bun:"slug,notnull" json:"slug"`
	CategoryID *uuid.UUID `bun:"category_id,type:uuid" json:"category_id,omitempty"`
	ImageID    *uuid.UUID `bun:"image_id,type:uuid" json:"image_id,omitempty"`
	Published  bool       `bun:"published,notnull" json:"published"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Models lists every table owned by this package, in creation order.
func Models() []any {
	return []any{
		(*Category)(nil),
		(*Page)(nil),
		(*Post)(nil),
		(*PostCategory)(nil),
		(*Image)(nil),
		(*Video)(nil),
		(*Product)(nil),
	}
}
