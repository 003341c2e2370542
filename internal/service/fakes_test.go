package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"recall/internal/domain"
	"recall/internal/domain/models"
	"recall/internal/domain/repositories"
)

// In-memory repository fakes backing the service tests.

type fakePageRepo struct {
	pages      map[string]*models.Page
	accessible []models.AccessiblePage
	searchHits []models.RankedPage
	locked     []string
}

func newFakePageRepo(pages ...*models.Page) *fakePageRepo {
	repo := &fakePageRepo{pages: make(map[string]*models.Page)}
	for _, p := range pages {
		cp := *p
		repo.pages[p.ID] = &cp
	}
	return repo
}

func (f *fakePageRepo) Create(ctx context.Context, page *models.Page) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	cp := *page
	f.pages[page.ID] = &cp
	return nil
}

func (f *fakePageRepo) GetByID(ctx context.Context, id string) (*models.Page, error) {
	p, ok := f.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (f *fakePageRepo) GetOwned(ctx context.Context, id, userID string) (*models.Page, error) {
	p, ok := f.pages[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePageRepo) LockForUpdate(ctx context.Context, id string) (*models.Page, error) {
	f.locked = append(f.locked, id)
	return f.GetByID(ctx, id)
}

func (f *fakePageRepo) Update(ctx context.Context, page *models.Page) error {
	if _, ok := f.pages[page.ID]; !ok {
		return fmt.Errorf("page %s: %w", page.ID, domain.ErrNotFound)
	}
	cp := *page
	f.pages[page.ID] = &cp
	return nil
}

func (f *fakePageRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(f.pages, id)
	return nil
}

func (f *fakePageRepo) ListAccessible(ctx context.Context, userID string) ([]models.AccessiblePage, error) {
	return f.accessible, nil
}

func (f *fakePageRepo) ListChildren(ctx context.Context, parentID string) ([]models.Page, error) {
	var children []models.Page
	for _, p := range f.pages {
		if p.ParentID != nil && *p.ParentID == parentID {
			children = append(children, *p)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		ti, tj := strings.ToLower(children[i].Title), strings.ToLower(children[j].Title)
		if ti != tj {
			return ti < tj
		}
		return children[i].ID < children[j].ID
	})
	return children, nil
}

func (f *fakePageRepo) Search(ctx context.Context, opts *models.SearchOptions) ([]models.RankedPage, error) {
	return f.searchHits, nil
}

type fakeShareRepo struct {
	shares map[string]*models.Share
	emails map[string]string
}

func newFakeShareRepo() *fakeShareRepo {
	return &fakeShareRepo{
		shares: make(map[string]*models.Share),
		emails: make(map[string]string),
	}
}

func shareKey(pageID, userID string) string {
	return pageID + "|" + userID
}

func (f *fakeShareRepo) Upsert(ctx context.Context, share *models.Share) error {
	key := shareKey(share.PageID, share.SharedWithUserID)
	if existing, ok := f.shares[key]; ok {
		existing.Permission = share.Permission
		share.ID = existing.ID
		share.CreatedAt = existing.CreatedAt
		return nil
	}
	if share.ID == "" {
		share.ID = uuid.NewString()
	}
	cp := *share
	f.shares[key] = &cp
	return nil
}

func (f *fakeShareRepo) Get(ctx context.Context, pageID, sharedWithUserID string) (*models.Share, error) {
	s, ok := f.shares[shareKey(pageID, sharedWithUserID)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeShareRepo) Delete(ctx context.Context, pageID, sharedWithUserID string) error {
	key := shareKey(pageID, sharedWithUserID)
	if _, ok := f.shares[key]; !ok {
		return fmt.Errorf("share: %w", domain.ErrNotFound)
	}
	delete(f.shares, key)
	return nil
}

func (f *fakeShareRepo) ListByPage(ctx context.Context, pageID string) ([]models.ShareView, error) {
	var views []models.ShareView
	for _, s := range f.shares {
		if s.PageID != pageID {
			continue
		}
		views = append(views, models.ShareView{
			Share:           *s,
			SharedWithEmail: f.emails[s.SharedWithUserID],
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return views[i].SharedWithEmail < views[j].SharedWithEmail
	})
	return views, nil
}

type fakeFlashcardRepo struct {
	cards     map[string]*models.Flashcard
	due       []models.Flashcard
	gotLimit  int
	gotUserID string
}

func newFakeFlashcardRepo(cards ...*models.Flashcard) *fakeFlashcardRepo {
	repo := &fakeFlashcardRepo{cards: make(map[string]*models.Flashcard)}
	for _, c := range cards {
		cp := *c
		repo.cards[c.ID] = &cp
	}
	return repo
}

func (f *fakeFlashcardRepo) Create(ctx context.Context, card *models.Flashcard) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	cp := *card
	f.cards[card.ID] = &cp
	return nil
}

func (f *fakeFlashcardRepo) GetByID(ctx context.Context, id string) (*models.Flashcard, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (f *fakeFlashcardRepo) Update(ctx context.Context, card *models.Flashcard) error {
	if _, ok := f.cards[card.ID]; !ok {
		return fmt.Errorf("flashcard %s: %w", card.ID, domain.ErrNotFound)
	}
	cp := *card
	f.cards[card.ID] = &cp
	return nil
}

func (f *fakeFlashcardRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.cards[id]; !ok {
		return fmt.Errorf("flashcard %s: %w", id, domain.ErrNotFound)
	}
	delete(f.cards, id)
	return nil
}

func (f *fakeFlashcardRepo) ListByPage(ctx context.Context, pageID string) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	for _, c := range f.cards {
		if c.PageID == pageID {
			cards = append(cards, *c)
		}
	}
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].CreatedAt.Before(cards[j].CreatedAt)
	})
	return cards, nil
}

func (f *fakeFlashcardRepo) ApplyReview(ctx context.Context, update *repositories.ReviewUpdate) (*models.Flashcard, error) {
	c, ok := f.cards[update.FlashcardID]
	if !ok {
		return nil, fmt.Errorf("flashcard %s: %w", update.FlashcardID, domain.ErrNotFound)
	}
	last := update.LastReviewedAt
	c.LastReviewedAt = &last
	c.NextReviewAt = update.NextReviewAt
	c.MasteryScore = update.MasteryScore
	c.ReviewCount++
	c.UpdatedAt = update.LastReviewedAt
	cp := *c
	return &cp, nil
}

func (f *fakeFlashcardRepo) ListDue(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	f.gotUserID = userID
	f.gotLimit = limit
	return f.due, nil
}

type fakeUserRepo struct {
	users     map[string]*models.User
	lockCalls int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		cp := *u
		repo.users[u.ID] = &cp
	}
	return repo
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) Upsert(ctx context.Context, user *models.User) (*models.User, error) {
	if existing, ok := f.users[user.ID]; ok {
		existing.Email = user.Email
		existing.Name = user.Name
		existing.UpdatedAt = user.UpdatedAt
		cp := *existing
		return &cp, nil
	}
	cp := *user
	f.users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeUserRepo) Count(ctx context.Context) (int, error) {
	return len(f.users), nil
}

func (f *fakeUserRepo) LockProvisioning(ctx context.Context) error {
	f.lockCalls++
	return nil
}

// fakeTxManager runs the function directly; the fakes have no
// transaction semantics to enforce.
type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

func strPtr(s string) *string {
	return &s
}
