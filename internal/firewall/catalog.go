package firewall

// Category classifies a task by the kind of work it performs.
// The classification itself comes from the external AI service.
type Category string

const (
	CategoryResearch Category = "research"
	CategoryBooking  Category = "booking"
	CategoryForm     Category = "form"
	CategoryShopping Category = "shopping"
	CategoryEmail    Category = "email"
	CategoryWriting  Category = "writing"
	CategoryReminder Category = "reminder"
	CategoryGeneral  Category = "general"
)

// Policy holds the default verb sets for one task category.
type Policy struct {
	Allowed   []string
	Forbidden []string
}

// catalog is the process-wide permission table. Categories that never touch
// a live page (email, writing, reminder) are denied all navigation and
// interaction verbs. Categories that must interact with pages still forbid
// payment universally; monetary actions require a separate human-approval
// path outside this core.
var catalog = map[Category]Policy{
	CategoryResearch: {
		Allowed:   []string{"navigate", "scroll", "screenshot", "extract", "search"},
		Forbidden: []string{"fill", "click", "submit", "login", "payment"},
	},
	CategoryBooking: {
		Allowed:   []string{"navigate", "click", "fill", "select", "submit", "screenshot", "extract"},
		Forbidden: []string{"payment", "login_new_account"},
	},
	CategoryForm: {
		Allowed:   []string{"navigate", "click", "fill", "select", "submit", "upload", "screenshot"},
		Forbidden: []string{"payment"},
	},
	CategoryShopping: {
		Allowed:   []string{"navigate", "click", "fill", "select", "screenshot", "extract"},
		Forbidden: []string{"payment", "checkout"},
	},
	CategoryEmail: {
		Allowed:   []string{"compose", "send"},
		Forbidden: []string{"navigate", "click", "fill"},
	},
	CategoryWriting: {
		Allowed:   []string{"generate", "format", "send_email"},
		Forbidden: []string{"navigate", "click", "fill", "payment"},
	},
	CategoryReminder: {
		Allowed:   []string{"schedule", "send_email", "remember"},
		Forbidden: []string{"navigate", "click", "fill", "payment"},
	},
	CategoryGeneral: {
		Allowed:   []string{"navigate", "click", "scroll", "screenshot", "extract", "search", "remember", "browse"},
		Forbidden: []string{"fill", "submit", "payment", "login"},
	},
}

// DefaultPolicy returns the catalog entry for a category. Categories absent
// from the table fall back to the general entry.
func DefaultPolicy(category Category) Policy {
	entry, ok := catalog[category]
	if !ok {
		entry = catalog[CategoryGeneral]
	}
	return Policy{
		Allowed:   append([]string(nil), entry.Allowed...),
		Forbidden: append([]string(nil), entry.Forbidden...),
	}
}

// Categories returns every category present in the catalog.
func Categories() []Category {
	return []Category{
		CategoryResearch,
		CategoryBooking,
		CategoryForm,
		CategoryShopping,
		CategoryEmail,
		CategoryWriting,
		CategoryReminder,
		CategoryGeneral,
	}
}
