package entity

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	cases := []struct {
		name    string
		in      []string
		want    []string
		wantErr error
	}{
		{"trims and drops blanks", []string{" work ", "", "  ", "home"}, []string{"work", "home"}, nil},
		{"dedupes keeping first order", []string{"b", "a", "b", " a"}, []string{"b", "a"}, nil},
		{"dedupe is case sensitive", []string{"Work", "work"}, []string{"Work", "work"}, nil},
		{"twenty runes allowed", []string{strings.Repeat("标", 20)}, []string{strings.Repeat("标", 20)}, nil},
		{"twenty one runes rejected", []string{strings.Repeat("x", 21)}, nil, ErrTagTooLong},
		{"duplicates do not count toward limit", append(numbered(10), "t0"), numbered(10), nil},
		{"eleven tags rejected", numbered(11), nil, ErrTooManyTags},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeTags(tc.in)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "t" + string(rune('0'+i%10)) + strings.Repeat("x", i/10)
	}
	return out
}

func TestNewTask_NormalizesFields(t *testing.T) {
	blank := "   "
	task, err := NewTask("user-1", "  Buy milk  ", &blank, nil)
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}
	if task.Title != "Buy milk" {
		t.Fatalf("title = %q", task.Title)
	}
	if task.Content != nil {
		t.Fatalf("blank content should be stored as NULL, got %q", *task.Content)
	}
	if task.Tags == nil || len(task.Tags) != 0 {
		t.Fatalf("expected empty tag list, got %#v", task.Tags)
	}
	if task.ID == "" || task.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamps to be set")
	}
}

func TestNewTask_RejectsBadTitle(t *testing.T) {
	if _, err := NewTask("user-1", " ", nil, nil); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
	if _, err := NewTask("user-1", strings.Repeat("a", MaxTitleLength+1), nil, nil); !errors.Is(err, ErrTitleTooLong) {
		t.Fatalf("expected ErrTitleTooLong, got %v", err)
	}
}

func TestTask_ApplyPartialUpdate(t *testing.T) {
	content := "details"
	task, err := NewTask("user-1", "title", &content, []string{"a"})
	if err != nil {
		t.Fatalf("NewTask: %v", err)
	}

	if err := task.Apply(nil, nil, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if task.Title != "title" || task.ContentText() != "details" || !task.HasTag("a") {
		t.Fatalf("nil fields must leave task unchanged: %+v", task)
	}

	if err := task.Apply(nil, nil, []string{}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(task.Tags) != 0 {
		t.Fatalf("empty tag slice should clear tags, got %v", task.Tags)
	}
}

func TestUser_Password(t *testing.T) {
	u := NewUser("  A@Example.com ", "Ann")
	if u.Email != "a@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if err := u.SetPassword("secret1"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !u.CheckPassword("secret1") || u.CheckPassword("secret2") {
		t.Fatalf("password check mismatch")
	}
}
