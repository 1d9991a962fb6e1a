package menus

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemType tells how a menu item finds its title and URL.
type ItemType string

const (
	ItemPage         ItemType = "page"
	ItemCategory     ItemType = "category"
	ItemPostCategory ItemType = "post_category"
	ItemPost         ItemType = "post"
	ItemAllPosts     ItemType = "all_posts"
	ItemExternal     ItemType = "external"
	ItemCatalog      ItemType = "catalog"
	ItemCustom       ItemType = "custom"
)

var itemTypes = []ItemType{
	ItemPage, ItemCategory, ItemPostCategory, ItemPost,
	ItemAllPosts, ItemExternal, ItemCatalog, ItemCustom,
}

// ParseItemType returns ItemCustom for blank or unknown values.
func ParseItemType(value string) ItemType {
	candidate := ItemType(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range itemTypes {
		if candidate == known {
			return known
		}
	}
	return ItemCustom
}

// HasLiteralURL reports whether the item keeps the URL typed by the editor.
func (t ItemType) HasLiteralURL() bool {
	return t == ItemCustom || t == ItemExternal
}

// MenuStyle is the storefront presentation of a menu.
type MenuStyle string

const (
	StyleHorizontal MenuStyle = "horizontal"
	StyleVertical   MenuStyle = "vertical"
	StyleMega       MenuStyle = "mega"
	StyleMobile     MenuStyle = "mobile"
)

func ParseMenuStyle(value string) MenuStyle {
	switch style := MenuStyle(strings.ToLower(strings.TrimSpace(value))); style {
	case StyleVertical, StyleMega, StyleMobile:
		return style
	default:
		return StyleHorizontal
	}
}

const (
	DefaultMaxDepth  = 3
	DefaultMenuTitle = "New menu"
)

// Menu groups the items of one menu instance.
type Menu struct {
	bun.BaseModel `bun:"table:menus,alias:m"`

	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Language  string    `bun:"language" json:"language,omitempty"`
	CreatedAt time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// MenuItem is a plain navigation entry. ParentID always points into the same menu.
type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items,alias:mit"`

	ID        uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	MenuID    uuid.UUID  `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	Title     string     `bun:"title,notnull" json:"title"`
	URL       string     `bun:"url,notnull" json:"url"`
	ParentID  *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	Position  int        `bun:"position,notnull" json:"position"`
	CreatedAt time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Instance holds the menu specific settings of a MenuModule instance.
type Instance struct {
	bun.BaseModel `bun:"table:menu_instances,alias:mmi"`

	ID                uuid.UUID `bun:",pk,type:uuid" json:"id"`
	ModuleInstanceID  uuid.UUID `bun:"module_instance_id,notnull,unique,type:uuid" json:"module_instance_id"`
	MenuID            uuid.UUID `bun:"menu_id,notnull,type:uuid" json:"menu_id"`
	Title             string    `bun:"title,notnull" json:"title"`
	MenuStyle         MenuStyle `bun:"menu_style,notnull" json:"menu_style"`
	MaxDepth          int       `bun:"max_depth,notnull" json:"max_depth"`
	ShowIcons         bool      `bun:"show_icons,notnull" json:"show_icons"`
	EnableVideos      bool      `bun:"enable_videos,notnull" json:"enable_videos"`
	IsMain            bool      `bun:"is_main,notnull" json:"is_main"`
	CustomCSSClass    string    `bun:"custom_css_class" json:"custom_css_class"`
	TargetBlank       bool      `bun:"target_blank,notnull" json:"target_blank"`
	EnableAutoCatalog bool      `bun:"enable_auto_catalog,notnull" json:"enable_auto_catalog"`
	CreatedAt         time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Depth returns MaxDepth, falling back to DefaultMaxDepth when unset.
func (i *Instance) Depth() int {
	if i == nil || i.MaxDepth < 1 {
		return DefaultMaxDepth
	}
	return i.MaxDepth
}

// ExtendedItem carries the typed target and presentation options of a MenuItem.
type ExtendedItem struct {
	bun.BaseModel `bun:"table:menu_items_extended,alias:mie"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	MenuInstanceID uuid.UUID  `bun:"menu_instance_id,notnull,type:uuid" json:"menu_instance_id"`
	MenuItemID     uuid.UUID  `bun:"menu_item_id,notnull,type:uuid" json:"menu_item_id"`
	ItemType       ItemType   `bun:"item_type,notnull" json:"item_type"`
	TargetID       *uuid.UUID `bun:"target_id,type:uuid" json:"target_id,omitempty"`
	IconID         *uuid.UUID `bun:"icon_id,type:uuid" json:"icon_id,omitempty"`
	VideoID        *uuid.UUID `bun:"video_id,type:uuid" json:"video_id,omitempty"`
	VideoURL       string     `bun:"video_url" json:"video_url,omitempty"`
	ShowInCatalog  bool       `bun:"show_in_catalog,notnull" json:"show_in_catalog"`
	CustomClass    string     `bun:"custom_class" json:"custom_class,omitempty"`
	Description    string     `bun:"description" json:"description,omitempty"`
	OpenInNewTab   bool       `bun:"open_in_new_tab,notnull" json:"open_in_new_tab"`
	IsFeatured     bool       `bun:"is_featured,notnull" json:"is_featured"`
	SortOrder      int        `bun:"sort_order,notnull" json:"sort_order"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// Models lists the tables owned by this package.
func Models() []any {
	return []any{
		(*Menu)(nil),
		(*MenuItem)(nil),
		(*Instance)(nil),
		(*ExtendedItem)(nil),
	}
}
