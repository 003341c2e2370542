package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"recall/internal/config"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/services"
)

func newTestPageService(pageRepo *fakePageRepo, shareRepo *fakeShareRepo) services.PageService {
	access := NewAccessResolver(pageRepo, shareRepo)
	hierarchy := NewHierarchyValidator(pageRepo)
	return NewPageService(pageRepo, access, hierarchy, fakeTxManager{}, slog.Default())
}

func TestCreatePage(t *testing.T) {
	tests := []struct {
		name    string
		req     *services.CreatePageRequest
		wantErr error
	}{
		{
			name: "valid root page",
			req:  &services.CreatePageRequest{UserID: "u1", Title: "My Notes"},
		},
		{
			name: "valid child page",
			req:  &services.CreatePageRequest{UserID: "u1", ParentID: strPtr("parent1"), Title: "Child"},
		},
		{
			name:    "empty title",
			req:     &services.CreatePageRequest{UserID: "u1", Title: ""},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "whitespace-only title",
			req:     &services.CreatePageRequest{UserID: "u1", Title: "   "},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "title over length cap",
			req:     &services.CreatePageRequest{UserID: "u1", Title: strings.Repeat("a", config.MaxTitleLength+1)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "parent owned by someone else",
			req:     &services.CreatePageRequest{UserID: "u1", ParentID: strPtr("foreign1"), Title: "Child"},
			wantErr: domain.ErrNotFound,
		},
		{
			name:    "parent does not exist",
			req:     &services.CreatePageRequest{UserID: "u1", ParentID: strPtr("ghost"), Title: "Child"},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pageRepo := newFakePageRepo(
				&models.Page{ID: "parent1", UserID: "u1", Title: "Parent"},
				&models.Page{ID: "foreign1", UserID: "u2", Title: "Foreign"},
			)
			svc := newTestPageService(pageRepo, newFakeShareRepo())

			page, err := svc.CreatePage(context.Background(), tt.req)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if page.ID == "" {
				t.Error("expected generated ID")
			}
			if page.UserID != tt.req.UserID {
				t.Errorf("expected owner %s, got %s", tt.req.UserID, page.UserID)
			}
		})
	}
}

func TestCreatePageDepthCeiling(t *testing.T) {
	// Chain too deep for the walk to reach a root within the ceiling;
	// creating under it must be rejected, not grow the chain further.
	var pages []*models.Page
	for i := 0; i < 150; i++ {
		page := &models.Page{ID: fmt.Sprintf("p%d", i), UserID: "u1", Title: fmt.Sprintf("P%d", i)}
		if i < 149 {
			page.ParentID = strPtr(fmt.Sprintf("p%d", i+1))
		}
		pages = append(pages, page)
	}
	pageRepo := newFakePageRepo(pages...)
	svc := newTestPageService(pageRepo, newFakeShareRepo())

	_, err := svc.CreatePage(context.Background(), &services.CreatePageRequest{
		UserID: "u1", ParentID: strPtr("p0"), Title: "Too Deep",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for over-deep chain, got %v", err)
	}

	// A parent well inside the ceiling still accepts
	page, err := svc.CreatePage(context.Background(), &services.CreatePageRequest{
		UserID: "u1", ParentID: strPtr("p140"), Title: "Shallow",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.ParentID == nil || *page.ParentID != "p140" {
		t.Errorf("expected parent p140, got %v", page.ParentID)
	}
}

func TestUpdatePageMove(t *testing.T) {
	setup := func() (*fakePageRepo, *fakeShareRepo) {
		pageRepo := newFakePageRepo(
			&models.Page{ID: "root", UserID: "u1", Title: "Root"},
			&models.Page{ID: "mid", UserID: "u1", ParentID: strPtr("root"), Title: "Mid"},
			&models.Page{ID: "leaf", UserID: "u1", ParentID: strPtr("mid"), Title: "Leaf"},
		)
		return pageRepo, newFakeShareRepo()
	}

	t.Run("owner moves page to new parent", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		svc := newTestPageService(pageRepo, shareRepo)

		page, err := svc.UpdatePage(context.Background(), "u1", "leaf", &services.UpdatePageRequest{
			ParentID: strPtr("root"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.ParentID == nil || *page.ParentID != "root" {
			t.Errorf("expected parent root, got %v", page.ParentID)
		}
	})

	t.Run("empty parent detaches to root", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		svc := newTestPageService(pageRepo, shareRepo)

		page, err := svc.UpdatePage(context.Background(), "u1", "leaf", &services.UpdatePageRequest{
			ParentID: strPtr(""),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.ParentID != nil {
			t.Errorf("expected nil parent, got %v", *page.ParentID)
		}
	})

	t.Run("move under descendant is rejected", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		svc := newTestPageService(pageRepo, shareRepo)

		_, err := svc.UpdatePage(context.Background(), "u1", "root", &services.UpdatePageRequest{
			ParentID: strPtr("leaf"),
		})
		if !errors.Is(err, domain.ErrConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		// Original parent must survive the rejected move
		stored, _ := pageRepo.GetByID(context.Background(), "root")
		if stored.ParentID != nil {
			t.Errorf("rejected move must not change parent, got %v", *stored.ParentID)
		}
	})

	t.Run("editor cannot move the page", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		shareRepo.shares[shareKey("leaf", "u2")] = &models.Share{
			ID: "s1", PageID: "leaf", OwnerID: "u1",
			SharedWithUserID: "u2", Permission: models.PermissionEdit,
		}
		svc := newTestPageService(pageRepo, shareRepo)

		_, err := svc.UpdatePage(context.Background(), "u2", "leaf", &services.UpdatePageRequest{
			ParentID: strPtr("root"),
		})
		if !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("editor can change content", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		shareRepo.shares[shareKey("leaf", "u2")] = &models.Share{
			ID: "s1", PageID: "leaf", OwnerID: "u1",
			SharedWithUserID: "u2", Permission: models.PermissionEdit,
		}
		svc := newTestPageService(pageRepo, shareRepo)

		page, err := svc.UpdatePage(context.Background(), "u2", "leaf", &services.UpdatePageRequest{
			Content: strPtr("updated body"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if page.Content == nil || *page.Content != "updated body" {
			t.Errorf("expected updated content, got %v", page.Content)
		}
	})

	t.Run("no fields is a validation error", func(t *testing.T) {
		pageRepo, shareRepo := setup()
		svc := newTestPageService(pageRepo, shareRepo)

		_, err := svc.UpdatePage(context.Background(), "u1", "leaf", &services.UpdatePageRequest{})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error, got %v", err)
		}
	})
}

func TestDeletePage(t *testing.T) {
	pageRepo := newFakePageRepo(&models.Page{ID: "page1", UserID: "u1", Title: "Notes"})
	shareRepo := newFakeShareRepo()
	shareRepo.shares[shareKey("page1", "u2")] = &models.Share{
		ID: "s1", PageID: "page1", OwnerID: "u1",
		SharedWithUserID: "u2", Permission: models.PermissionEdit,
	}
	svc := newTestPageService(pageRepo, shareRepo)

	// Even an edit share does not allow deletion
	if err := svc.DeletePage(context.Background(), "u2", "page1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for editor, got %v", err)
	}

	if err := svc.DeletePage(context.Background(), "stranger", "page1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}

	if err := svc.DeletePage(context.Background(), "u1", "page1"); err != nil {
		t.Fatalf("unexpected error for owner: %v", err)
	}
}

func TestListPagesTree(t *testing.T) {
	pageRepo := newFakePageRepo()
	pageRepo.accessible = []models.AccessiblePage{
		{Page: models.Page{ID: "b", UserID: "u1", Title: "beta"}},
		{Page: models.Page{ID: "a", UserID: "u1", Title: "Alpha"}},
		{Page: models.Page{ID: "a1", UserID: "u1", ParentID: strPtr("a"), Title: "zulu child"}},
		{Page: models.Page{ID: "a2", UserID: "u1", ParentID: strPtr("a"), Title: "Echo child"}},
		// Shared page whose parent is invisible: surfaces as a root
		{
			Page:       models.Page{ID: "s", UserID: "u2", ParentID: strPtr("hidden"), Title: "Shared"},
			IsShared:   true,
			Permission: permPtr(models.PermissionViewOnly),
			OwnerEmail: strPtr("owner@example.com"),
		},
	}
	svc := newTestPageService(pageRepo, newFakeShareRepo())

	tree, err := svc.ListPages(context.Background(), "u1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tree) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(tree))
	}
	// Casefolded alphabetical: Alpha, beta, Shared
	if tree[0].ID != "a" || tree[1].ID != "b" || tree[2].ID != "s" {
		t.Errorf("unexpected root order: %s, %s, %s", tree[0].ID, tree[1].ID, tree[2].ID)
	}

	alpha := tree[0]
	if len(alpha.Children) != 2 {
		t.Fatalf("expected 2 children under Alpha, got %d", len(alpha.Children))
	}
	if alpha.Children[0].ID != "a2" || alpha.Children[1].ID != "a1" {
		t.Errorf("unexpected child order: %s, %s", alpha.Children[0].ID, alpha.Children[1].ID)
	}

	shared := tree[2]
	if !shared.IsShared {
		t.Error("expected shared page to carry sharing metadata")
	}
	if shared.OwnerEmail == nil || *shared.OwnerEmail != "owner@example.com" {
		t.Errorf("expected owner email, got %v", shared.OwnerEmail)
	}
}

func TestListPagesParentFilter(t *testing.T) {
	pageRepo := newFakePageRepo()
	pageRepo.accessible = []models.AccessiblePage{
		{Page: models.Page{ID: "a", UserID: "u1", Title: "Alpha"}},
		{Page: models.Page{ID: "a1", UserID: "u1", ParentID: strPtr("a"), Title: "Child"}},
	}
	svc := newTestPageService(pageRepo, newFakeShareRepo())

	tree, err := svc.ListPages(context.Background(), "u1", strPtr("a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree) != 1 || tree[0].ID != "a1" {
		t.Fatalf("expected single child a1, got %+v", tree)
	}

	// Filtering on a page outside the accessible set must not reveal it
	if _, err := svc.ListPages(context.Background(), "u1", strPtr("hidden")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for invisible parent, got %v", err)
	}
}

func TestGetChildren(t *testing.T) {
	pageRepo := newFakePageRepo(
		&models.Page{ID: "parent", UserID: "u1", Title: "Parent"},
		&models.Page{ID: "c1", UserID: "u1", ParentID: strPtr("parent"), Title: "bravo"},
		&models.Page{ID: "c2", UserID: "u1", ParentID: strPtr("parent"), Title: "Alpha"},
	)
	svc := newTestPageService(pageRepo, newFakeShareRepo())

	children, err := svc.GetChildren(context.Background(), "u1", "parent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(children))
	}

	if _, err := svc.GetChildren(context.Background(), "stranger", "parent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for stranger, got %v", err)
	}
}

func permPtr(p models.Permission) *models.Permission {
	return &p
}
