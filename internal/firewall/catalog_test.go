package firewall

import "testing"

func TestDefaultPolicyTable(t *testing.T) {
	cases := []struct {
		category  Category
		allowed   []string
		forbidden []string
	}{
		{CategoryResearch,
			[]string{"navigate", "scroll", "screenshot", "extract", "search"},
			[]string{"fill", "click", "submit", "login", "payment"}},
		{CategoryBooking,
			[]string{"navigate", "click", "fill", "select", "submit", "screenshot", "extract"},
			[]string{"payment", "login_new_account"}},
		{CategoryForm,
			[]string{"navigate", "click", "fill", "select", "submit", "upload", "screenshot"},
			[]string{"payment"}},
		{CategoryShopping,
			[]string{"navigate", "click", "fill", "select", "screenshot", "extract"},
			[]string{"payment", "checkout"}},
		{CategoryEmail,
			[]string{"compose", "send"},
			[]string{"navigate", "click", "fill"}},
		{CategoryWriting,
			[]string{"generate", "format", "send_email"},
			[]string{"navigate", "click", "fill", "payment"}},
		{CategoryReminder,
			[]string{"schedule", "send_email", "remember"},
			[]string{"navigate", "click", "fill", "payment"}},
		{CategoryGeneral,
			[]string{"navigate", "click", "scroll", "screenshot", "extract", "search", "remember", "browse"},
			[]string{"fill", "submit", "payment", "login"}},
	}

	for _, tc := range cases {
		policy := DefaultPolicy(tc.category)
		if len(policy.Allowed) != len(tc.allowed) {
			t.Errorf("%s: expected %d allowed verbs, got %d", tc.category, len(tc.allowed), len(policy.Allowed))
		}
		for i, verb := range tc.allowed {
			if policy.Allowed[i] != verb {
				t.Errorf("%s: allowed[%d] = %q, want %q", tc.category, i, policy.Allowed[i], verb)
			}
		}
		if len(policy.Forbidden) != len(tc.forbidden) {
			t.Errorf("%s: expected %d forbidden verbs, got %d", tc.category, len(tc.forbidden), len(policy.Forbidden))
		}
		for i, verb := range tc.forbidden {
			if policy.Forbidden[i] != verb {
				t.Errorf("%s: forbidden[%d] = %q, want %q", tc.category, i, policy.Forbidden[i], verb)
			}
		}
	}
}

func TestDefaultPolicyUnknownCategoryFallsBack(t *testing.T) {
	unknown := DefaultPolicy(Category("made-up"))
	general := DefaultPolicy(CategoryGeneral)

	if len(unknown.Allowed) != len(general.Allowed) {
		t.Fatalf("Unknown category did not fall back to general: %v", unknown.Allowed)
	}
	for i := range general.Allowed {
		if unknown.Allowed[i] != general.Allowed[i] {
			t.Errorf("allowed[%d] = %q, want %q", i, unknown.Allowed[i], general.Allowed[i])
		}
	}
}

func TestDefaultPolicyReturnsCopies(t *testing.T) {
	first := DefaultPolicy(CategoryResearch)
	first.Allowed[0] = "mutated"
	first.Forbidden[0] = "mutated"

	second := DefaultPolicy(CategoryResearch)
	if second.Allowed[0] == "mutated" || second.Forbidden[0] == "mutated" {
		t.Error("Mutating a returned policy leaked into the catalog")
	}
}

func TestCategoriesCoversCatalog(t *testing.T) {
	cats := Categories()
	if len(cats) != len(catalog) {
		t.Fatalf("Categories() returned %d entries, catalog has %d", len(cats), len(catalog))
	}
	for _, c := range cats {
		if _, ok := catalog[c]; !ok {
			t.Errorf("Category %q missing from catalog", c)
		}
	}
}
