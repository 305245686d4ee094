// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/mayconcorreia/site-tmhigienizacao/internal/model"
)

// fakeSource serves a mutable collection and counts fetches.
type fakeSource struct {
	items   []model.Contact
	err     error
	fetches int
}

func (f *fakeSource) fetch(context.Context) ([]model.Contact, error) {
	f.fetches++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Contact, len(f.items))
	copy(out, f.items)
	return out, nil
}

func sampleContacts() []model.Contact {
	return []model.Contact{
		{ID: "1", Name: "Maria Silva", Phone: "13 99999-0001", Message: "Sofá", Status: model.StatusPending},
		{ID: "2", Name: "João Santos", Phone: "13 99999-0002", Message: "Falar com Maria", Status: model.StatusPending},
		{ID: "3", Name: "Ana Costa", Phone: "13 99999-0003", Email: "ana@example.com", Message: "Colchão", Status: model.StatusPending},
		{ID: "4", Name: "Pedro", Phone: "13 99999-0004", Message: "Tapete", Status: model.StatusConverted},
		{ID: "5", Name: "Lucas", Phone: "13 99999-0005", Message: "Cortina", Status: model.StatusConverted},
	}
}

func newLoaded(t *testing.T, src *fakeSource) *Controller[model.Contact] {
	t.Helper()
	c := New(src.fetch, ContactMatcher)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}
	return c
}

func ids(items []model.Contact) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestView_StatusFilter(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})

	tests := []struct {
		status string
		want   int
	}{
		{"", 5},
		{StatusAll, 5},
		{string(model.StatusPending), 3},
		{string(model.StatusConverted), 2},
		{string(model.StatusClosed), 0},
	}
	for _, tt := range tests {
		t.Run("status="+tt.status, func(t *testing.T) {
			got := c.View(Filter{Status: tt.status})
			if len(got) != tt.want {
				t.Errorf("View(status=%q) len = %d, want %d", tt.status, len(got), tt.want)
			}
			for _, item := range got {
				if tt.status != "" && tt.status != StatusAll && string(item.Status) != tt.status {
					t.Errorf("item %s has status %q, want %q", item.ID, item.Status, tt.status)
				}
			}
		})
	}
}

func TestView_SearchIsCaseInsensitiveAcrossFields(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})

	tests := []struct {
		search string
		want   []string
	}{
		{"maria", []string{"1", "2"}},
		{"MARIA", []string{"1", "2"}},
		{"ana@example", []string{"3"}},
		{"0004", []string{"4"}},
		{"colchão", []string{"3"}},
		{"  pedro  ", []string{"4"}},
		{"nobody", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			got := ids(c.View(Filter{Search: tt.search}))
			if len(got) != len(tt.want) {
				t.Fatalf("View(%q) = %v, want %v", tt.search, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("View(%q)[%d] = %s, want %s", tt.search, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestView_CombinesSearchAndStatus(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})
	got := c.View(Filter{Search: "maria", Status: string(model.StatusConverted)})
	if len(got) != 0 {
		t.Errorf("View() = %v, want empty", ids(got))
	}
}

func TestView_DoesNotMutateCanonicalList(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})
	_ = c.View(Filter{Search: "maria", Status: string(model.StatusPending)})
	if c.Len() != 5 {
		t.Errorf("Len() = %d after View, want 5", c.Len())
	}
}

func TestRefresh_FailureKeepsPriorList(t *testing.T) {
	src := &fakeSource{items: sampleContacts()}
	c := newLoaded(t, src)

	src.err = errors.New("boom")
	src.items = nil
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() error = nil, want error")
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d after failed refresh, want 5", c.Len())
	}
}

func TestMutate_SuccessRefetchesOnce(t *testing.T) {
	src := &fakeSource{items: sampleContacts()}
	c := newLoaded(t, src)
	before := src.fetches

	err := c.Mutate(context.Background(), func(context.Context) error {
		src.items = src.items[1:]
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() error: %v", err)
	}
	if got := src.fetches - before; got != 1 {
		t.Errorf("fetches after mutation = %d, want exactly 1", got)
	}
	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4 (server truth)", c.Len())
	}
}

func TestMutate_FailureLeavesListUnchanged(t *testing.T) {
	src := &fakeSource{items: sampleContacts()}
	c := newLoaded(t, src)
	before := src.fetches
	opErr := errors.New("delete failed")

	err := c.Mutate(context.Background(), func(context.Context) error { return opErr })
	if !errors.Is(err, opErr) {
		t.Errorf("Mutate() error = %v, want %v", err, opErr)
	}
	if src.fetches != before {
		t.Errorf("fetches = %d, want no refetch after failed op", src.fetches-before)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
}

func TestMutate_RefreshFailure(t *testing.T) {
	src := &fakeSource{items: sampleContacts()}
	c := newLoaded(t, src)

	err := c.Mutate(context.Background(), func(context.Context) error {
		src.err = errors.New("backend down")
		return nil
	})
	var refreshErr *RefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("Mutate() error = %v, want *RefreshError", err)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want prior list kept", c.Len())
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	src := &fakeSource{items: sampleContacts()}
	c := newLoaded(t, src)
	called := false

	err := c.Delete(context.Background(), false, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrNotConfirmed) {
		t.Errorf("Delete() error = %v, want ErrNotConfirmed", err)
	}
	if called {
		t.Error("delete op must not run without confirmation")
	}

	if err := c.Delete(context.Background(), true, func(context.Context) error {
		called = true
		return nil
	}); err != nil {
		t.Fatalf("confirmed Delete() error: %v", err)
	}
	if !called {
		t.Error("confirmed delete op did not run")
	}
}

func TestCounts(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})
	counts := c.Counts()
	if counts[string(model.StatusPending)] != 3 || counts[string(model.StatusConverted)] != 2 {
		t.Errorf("Counts() = %v, want pending=3 converted=2", counts)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	c := newLoaded(t, &fakeSource{items: sampleContacts()})
	items := c.Items()
	items[0].Name = "changed"
	if c.Items()[0].Name == "changed" {
		t.Error("Items() must return a copy")
	}
}

func TestOtherMatchers(t *testing.T) {
	services := []model.Service{
		{ID: "s1", Title: "Sofás", Description: "Limpeza profunda", Active: true},
		{ID: "s2", Title: "Colchões", Description: "Ácaros", Active: false},
	}
	sc := New(func(context.Context) ([]model.Service, error) { return services, nil }, ServiceMatcher)
	if err := sc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := sc.View(Filter{Status: StatusInactive}); len(got) != 1 || got[0].ID != "s2" {
		t.Errorf("inactive services = %v, want [s2]", got)
	}
	if got := sc.View(Filter{Search: "PROFUNDA"}); len(got) != 1 || got[0].ID != "s1" {
		t.Errorf("search services = %v, want [s1]", got)
	}

	pricing := []model.PricingCategory{
		{ID: "p1", Category: "Sofás", Items: []model.PricingItem{{Name: "Sofá 2 lugares", Price: "R$ 80"}}},
		{ID: "p2", Category: "Colchões", Items: []model.PricingItem{{Name: "Solteiro", Price: "R$ 90"}}},
	}
	pc := New(func(context.Context) ([]model.PricingCategory, error) { return pricing, nil }, PricingMatcher)
	if err := pc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := pc.View(Filter{Search: "solteiro"}); len(got) != 1 || got[0].ID != "p2" {
		t.Errorf("search pricing = %v, want [p2]", got)
	}

	testimonials := []model.Testimonial{
		{ID: "t1", Name: "Maria", Location: "Centro", Rating: 5},
		{ID: "t2", Name: "João", Location: "Jardim", Rating: 4},
	}
	tc := New(func(context.Context) ([]model.Testimonial, error) { return testimonials, nil }, TestimonialMatcher)
	if err := tc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := tc.View(Filter{Status: "4"}); len(got) != 1 || got[0].ID != "t2" {
		t.Errorf("rating filter = %v, want [t2]", got)
	}
}
