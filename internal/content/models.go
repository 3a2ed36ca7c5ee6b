package content

// Content is a stored H5P content record.
type Content struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	A11yTitle      string `json:"a11y_title"`
	Library        string `json:"library"`
	LibraryID      *int64 `json:"library_id,omitempty"`
	Parameters     string `json:"parameters"` // JSON params document
	Language       string `json:"language"`
	Authors        string `json:"authors"` // JSON [{name, role}]
	License        string `json:"license"`
	LicenseVersion string `json:"license_version"`
	LicenseExtras  string `json:"license_extras"`
	CreatedBy      string `json:"created_by,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

// Node wraps a content record so it can be published.
type Node struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	FieldH5P  int64  `json:"field_h5p"`
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// NodeTypeH5P is the node bundle that carries an H5P field.
const NodeTypeH5P = "h5p"
