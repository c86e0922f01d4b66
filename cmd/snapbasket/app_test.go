package main

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/snapbasket/snapbasket/internal/assets"
	"github.com/snapbasket/snapbasket/internal/capture"
	"github.com/snapbasket/snapbasket/internal/catalog"
	"github.com/snapbasket/snapbasket/internal/config"
	"github.com/snapbasket/snapbasket/internal/connectivity"
	"github.com/snapbasket/snapbasket/internal/conversation"
	"github.com/snapbasket/snapbasket/internal/display"
	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
	"github.com/snapbasket/snapbasket/internal/state"
	"github.com/snapbasket/snapbasket/internal/view"
)

type fakeService struct {
	detections []string
	boxes      []domain.BoundingBox
	recipes    []domain.Recipe
	recommends int
}

func (f *fakeService) Detect(ctx context.Context, imageDataURL string) (*domain.DetectionResult, error) {
	return &domain.DetectionResult{
		Success:             true,
		DetectedIngredients: f.detections,
		BoundingBoxes:       f.boxes,
	}, nil
}

func (f *fakeService) Recommend(ctx context.Context, ingredients []string) ([]domain.Recipe, error) {
	f.recommends++
	return f.recipes, nil
}

type noopCamera struct{}

func (noopCamera) Grab() (*capture.Snapshot, error) { return nil, domain.ErrCameraUnavailable }
func (noopCamera) Stop()                            {}

func newTestApp(t *testing.T, svc domain.RecipeService) *cliApp {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	dir := t.TempDir()
	store := state.NewFileStore(filepath.Join(dir, "state.json"), log)

	cfg := &config.Config{}
	cfg.View.PageSize = 2
	cfg.Capture.OutDir = filepath.Join(dir, "snaps")
	cfg.Capture.DropDir = filepath.Join(dir, "drop")

	a := &cliApp{
		cfg:       cfg,
		service:   svc,
		catalog:   catalog.NewEmbedded(log),
		basket:    state.LoadBasket(store),
		favorites: state.LoadFavorites(store),
		monitor:   connectivity.NewMonitor("http://127.0.0.1:1", log),
		camera:    noopCamera{},
		parser:    conversation.NewKeywordParser(log),
		log:       log,
	}
	a.cache = assets.NewCache("http://127.0.0.1:1", filepath.Join(dir, "cache"), "test-v1", nil, log)
	a.ui = display.NewUI(a)
	a.notifier = conversation.NewToastNotifier(log, a.ui.Printf)
	return a
}

func testSnapshot(t *testing.T) *capture.Snapshot {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 40, 30)), nil); err != nil {
		t.Fatal(err)
	}
	return &capture.Snapshot{ID: "test-snap", Source: "test", Data: buf.Bytes(), Width: 40, Height: 30}
}

func TestDetectFlowFillsBasketAndRecommends(t *testing.T) {
	percent := 50
	svc := &fakeService{
		detections: []string{"Tomato", "onion"},
		boxes:      []domain.BoundingBox{{X: 20, Y: 15, Width: 10, Height: 10, Class: "tomato", Confidence: 90.1}},
		recipes: []domain.Recipe{
			{Name: "Tomato Soup", MatchPercent: &percent},
		},
	}
	a := newTestApp(t, svc)

	a.detect(context.Background(), testSnapshot(t))

	items := a.basket.Items()
	if len(items) != 2 || items[0] != "onion" || items[1] != "tomato" {
		t.Fatalf("basket = %v, want lowercased [onion tomato]", items)
	}
	if svc.recommends != 1 {
		t.Errorf("recommend calls = %d, want 1", svc.recommends)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.listing) != 1 || a.listing[0].Name != "Tomato Soup" {
		t.Errorf("listing = %v", a.listing)
	}
}

func TestDetectDuplicatesDoNotGrowBasket(t *testing.T) {
	svc := &fakeService{detections: []string{"tomato"}}
	a := newTestApp(t, svc)
	a.basket.Add("Tomato")

	a.detect(context.Background(), testSnapshot(t))

	if a.basket.Len() != 1 {
		t.Fatalf("basket length = %d, want 1", a.basket.Len())
	}
}

func TestCardAtResolvesAcrossPages(t *testing.T) {
	a := newTestApp(t, &fakeService{})
	a.setListing("All recipes", a.catalog.All())

	first := a.cardAt("1")
	if first == nil {
		t.Fatal("card 1 should resolve")
	}

	a.mu.Lock()
	a.pager.Next()
	a.mu.Unlock()

	second := a.cardAt("1")
	if second == nil {
		t.Fatal("card 1 on page 2 should resolve")
	}
	if first.Name == second.Name {
		t.Error("card numbering should be page-relative")
	}

	if r := a.cardAt("99"); r != nil {
		t.Errorf("card 99 resolved to %s, want nil", r.Name)
	}
	if r := a.cardAt("zero"); r != nil {
		t.Errorf("non-numeric payload resolved to %s, want nil", r.Name)
	}
}

func TestToggleFavPersists(t *testing.T) {
	a := newTestApp(t, &fakeService{})
	a.setListing("All recipes", a.catalog.All())

	target := a.cardAt("1")
	a.toggleFav(context.Background(), "1")
	if !a.favorites.Has(target.Name) {
		t.Fatalf("%s should be a favorite", target.Name)
	}
	a.toggleFav(context.Background(), "1")
	if a.favorites.Has(target.Name) {
		t.Fatalf("%s should no longer be a favorite", target.Name)
	}
}

func TestFavoritesListingFiltersCatalog(t *testing.T) {
	a := newTestApp(t, &fakeService{})
	all := a.catalog.All()
	a.favorites.Toggle(all[0].Name)
	a.favorites.Toggle(all[2].Name)

	a.showFavorites()

	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.listing) != 2 {
		t.Fatalf("favorites listing = %d recipes, want 2", len(a.listing))
	}
	if a.listing[0].Name != all[0].Name || a.listing[1].Name != all[2].Name {
		t.Errorf("favorites listing out of catalog order: %v", a.listing)
	}
}

func TestBuildCardNumbersMatchPage(t *testing.T) {
	a := newTestApp(t, &fakeService{})
	a.setListing("All recipes", a.catalog.All())

	a.mu.Lock()
	start, end := a.pager.Bounds()
	a.mu.Unlock()
	if end-start != a.cfg.View.PageSize {
		t.Fatalf("page slice = %d, want %d", end-start, a.cfg.View.PageSize)
	}

	card := view.BuildCard(1, a.cardAt("1"), a.favorites)
	if card.Index != 1 {
		t.Errorf("card index = %d", card.Index)
	}
}

func TestRefreshIntentWarmsCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("shell"))
	}))

	a := newTestApp(t, &fakeService{})
	a.cache = assets.NewCache(srv.URL, t.TempDir(), "test-v1",
		[]string{"/", "/static/js/app.js"}, a.log)

	a.handleIntent(context.Background(), &domain.Intent{Type: domain.IntentRefresh})
	srv.Close()

	// Both essentials were pulled through the fetch policy and now survive
	// a refresh with the backend gone.
	ok, failed := a.cache.Refresh(context.Background())
	if ok != 2 || failed != 0 {
		t.Fatalf("offline refresh: ok=%d failed=%d, want 2/0", ok, failed)
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "ingredient"); got != "1 ingredient" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "ingredient"); got != "3 ingredients" {
		t.Errorf("plural(3) = %q", got)
	}
}
