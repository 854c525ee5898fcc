// AngelaMos | 2026
// dto_test.go

package event

import (
	"testing"
)

func TestCreateEventRequestValidation(t *testing.T) {
	v := newValidator()

	valid := validCreateRequest()
	if err := v.Struct(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*CreateEventRequest)
	}{
		{"missing title", func(r *CreateEventRequest) { r.Title = "" }},
		{"short description", func(r *CreateEventRequest) { r.Description = "short" }},
		{"bad date format", func(r *CreateEventRequest) { r.Date = "08/11/2026" }},
		{"bad time format", func(r *CreateEventRequest) { r.Time = "6pm" }},
		{"bad contact email", func(r *CreateEventRequest) { r.ContactEmail = "not-an-email" }},
		{"unknown category", func(r *CreateEventRequest) { r.Category = "Quizzes" }},
		{
			"booking link not a url",
			func(r *CreateEventRequest) {
				link := "just text"
				r.BookingLink = &link
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(&req)
			if err := v.Struct(req); err == nil {
				t.Error("invalid request accepted")
			}
		})
	}
}

func TestEveryListedCategoryIsAccepted(t *testing.T) {
	v := newValidator()

	for _, category := range Categories {
		req := validCreateRequest()
		req.Category = category
		if err := v.Struct(req); err != nil {
			t.Errorf("category %q rejected: %v", category, err)
		}
	}
}

func TestUpdateEventRequestAllowsPartialEdit(t *testing.T) {
	v := newValidator()

	title := "New Title"
	req := UpdateEventRequest{Title: &title}
	if err := v.Struct(req); err != nil {
		t.Errorf("partial update rejected: %v", err)
	}

	badDate := "tomorrow"
	req = UpdateEventRequest{Date: &badDate}
	if err := v.Struct(req); err == nil {
		t.Error("bad date accepted")
	}
}

func TestListParamsNormalize(t *testing.T) {
	p := ListParams{Page: -3, PageSize: 5000}
	p.Normalize()

	if p.Page != 1 {
		t.Errorf("page = %d, want 1", p.Page)
	}
	if p.PageSize != 20 {
		t.Errorf("page size = %d, want 20", p.PageSize)
	}

	p = ListParams{Page: 3, PageSize: 10}
	p.Normalize()
	if p.Offset() != 20 {
		t.Errorf("offset = %d, want 20", p.Offset())
	}
}
