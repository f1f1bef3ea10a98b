package ast

// NavigationType is the kind of a navigation menu entry.
type NavigationType string

const (
	NavigationSection NavigationType = "section"
	NavigationGroup   NavigationType = "group"
	NavigationPage    NavigationType = "page"
)

// NavigationItem is one entry of the menu tree shown next to the preview.
// Sections and groups carry Content; pages carry an Href that resolves back
// to the page through Document.ObjectByID.
type NavigationItem struct {
	Type    NavigationType    `json:"type"`
	Title   string            `json:"title"`
	Icon    string            `json:"icon,omitempty"`
	Content []*NavigationItem `json:"content,omitempty"`
	Href    string            `json:"href,omitempty"`
}

// Navigation reshapes the layout into the navigation tree. Plugins and plain
// text are omitted. It returns an empty tree if the document has no layout.
func (d *Document) Navigation() []*NavigationItem {
	layout := d.Object(ObjectTypeLayout)
	if layout == nil {
		return []*NavigationItem{}
	}
	return navigationItems(layout.Layout)
}

func navigationItems(objects []*LayoutObject) []*NavigationItem {
	items := make([]*NavigationItem, 0, len(objects))
	for _, obj := range objects {
		switch obj.Type {
		case ObjectTypeSection:
			items = append(items, &NavigationItem{
				Type:    NavigationSection,
				Title:   obj.Name,
				Icon:    obj.Icon,
				Content: navigationItems(obj.Children),
			})
		case ObjectTypeGroup:
			items = append(items, &NavigationItem{
				Type:    NavigationGroup,
				Title:   obj.Name,
				Icon:    obj.Icon,
				Content: navigationItems(obj.Children),
			})
		case ObjectTypePage:
			items = append(items, &NavigationItem{
				Type:  NavigationPage,
				Title: obj.Name,
				Icon:  obj.Icon,
				Href:  obj.ID,
			})
		}
	}
	return items
}
