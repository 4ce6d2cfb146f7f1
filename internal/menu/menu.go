// Package menu defines the menu shapes used by the guest API and the
// normalization from the scan payload's categoryId/itemId shape.
package menu

type Option struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	IsVeg       bool     `json:"isVeg,omitempty"`
	Variants    []Option `json:"variants,omitempty"`
	Addons      []Option `json:"addons,omitempty"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []Item `json:"items,omitempty"`
}

type Menu struct {
	ID         string     `json:"id,omitempty"`
	Name       string     `json:"name,omitempty"`
	Categories []Category `json:"categories,omitempty"`
	Items      []Item     `json:"items,omitempty"`
}

// Scan payload shapes. The scan endpoint embeds the menu with
// categoryId/itemId keys and nested items.

type ScanMenu struct {
	LastUpdated string         `json:"lastUpdated,omitempty"`
	Categories  []ScanCategory `json:"categories,omitempty"`
}

type ScanCategory struct {
	CategoryID string         `json:"categoryId,omitempty"`
	Name       string         `json:"name,omitempty"`
	Priority   int            `json:"priority,omitempty"`
	Items      []ScanMenuItem `json:"items,omitempty"`
}

type ScanMenuItem struct {
	ItemID      string   `json:"itemId,omitempty"`
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	IsVeg       bool     `json:"isVeg,omitempty"`
	Price       float64  `json:"price,omitempty"`
	Available   *bool    `json:"available,omitempty"`
	Variants    []Option `json:"variants,omitempty"`
	Addons      []Option `json:"addons,omitempty"`
}

// NormalizeScanMenu flattens the scan shape into Menu. Returns nil when
// the payload carries no categories, so callers fall back to the
// active-menu endpoint.
func NormalizeScanMenu(scanMenu *ScanMenu) *Menu {
	if scanMenu == nil || len(scanMenu.Categories) == 0 {
		return nil
	}

	normalized := &Menu{}
	for _, c := range scanMenu.Categories {
		category := Category{
			ID:   c.CategoryID,
			Name: c.Name,
		}
		for _, i := range c.Items {
			item := Item{
				ID:          i.ItemID,
				Name:        i.Name,
				Description: i.Description,
				Price:       i.Price,
				ImageURL:    i.ImageURL,
				IsVeg:       i.IsVeg,
				Variants:    i.Variants,
				Addons:      i.Addons,
			}
			category.Items = append(category.Items, item)
		}
		normalized.Categories = append(normalized.Categories, category)
		normalized.Items = append(normalized.Items, category.Items...)
	}
	return normalized
}
