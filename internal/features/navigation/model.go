package navigation

type NavItem struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Href     string    `json:"href"`
	Icon     string    `json:"icon"`
	Children []NavItem `json:"children,omitempty"`
	Badge    string    `json:"badge,omitempty"`
	Disabled bool      `json:"disabled,omitempty"`
}

type NavGroup struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Items []NavItem `json:"items"`
}

type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}
