package models

import "time"

// PanelSnapshot is the panel's view state for one store: every table plus the
// open sales hydrated with their items. It is replaced wholesale on reload;
// there is no partial refresh.
type PanelSnapshot struct {
	Store     StoreID   `json:"store"`
	Tables    []*Table  `json:"tables"`
	OpenSales []*Sale   `json:"open_sales"`
	DemoMode  bool      `json:"demo_mode"`
	LoadedAt  time.Time `json:"loaded_at"`
}
