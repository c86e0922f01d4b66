package main

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/snapbasket/snapbasket/internal/assets"
	"github.com/snapbasket/snapbasket/internal/capture"
	"github.com/snapbasket/snapbasket/internal/catalog"
	"github.com/snapbasket/snapbasket/internal/config"
	"github.com/snapbasket/snapbasket/internal/connectivity"
	"github.com/snapbasket/snapbasket/internal/display"
	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
	"github.com/snapbasket/snapbasket/internal/overlay"
	"github.com/snapbasket/snapbasket/internal/state"
	"github.com/snapbasket/snapbasket/internal/view"
)

// cliApp owns all runtime state and dispatches parsed intents. Every
// dependency comes in through the struct; nothing global.
type cliApp struct {
	cfg       *config.Config
	service   domain.RecipeService
	catalog   *catalog.Embedded
	basket    *state.Basket
	favorites *state.Favorites
	monitor   *connectivity.Monitor
	camera    capture.FrameSource
	parser    domain.CommandParser
	notifier  domain.Notifier
	cache     *assets.Cache
	log       *logger.Logger
	ui        *display.UI

	mu       sync.Mutex
	listing  []domain.Recipe // what the cards currently show
	title    string
	pager    view.Pager
	watcher  *capture.DropWatcher
	watching bool
}

// Status feeds the bottom status bar. Called once a second from the UI.
func (a *cliApp) Status() display.Status {
	a.mu.Lock()
	watching := a.watching
	a.mu.Unlock()

	active := false
	if cam, ok := a.camera.(*capture.CameraSource); ok {
		active = cam.Active()
	}
	return display.Status{
		Online:       a.monitor.Online(),
		BasketCount:  a.basket.Len(),
		CameraActive: active,
		Watching:     watching,
	}
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Hey! Snap a photo of what's in your kitchen and I'll find you something to cook.")
	a.ui.Println("")

	uiCh := a.ui.InputChan()
	connCh := a.monitor.Events()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case st := <-connCh:
			if st == connectivity.StateOnline {
				a.ui.PrintChat("Back online — detection and recommendations are available again.")
			} else {
				a.ui.PrintUrgent("You're offline. Browse and favorites still work from the bundled catalog.")
			}
			continue
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (payload=%q)", intent.Type, intent.Payload)
		if intent.Type == domain.IntentQuit {
			a.ui.PrintChat("Happy cooking!")
			return
		}
		a.handleIntent(ctx, intent)
	}
}

func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentSnap:
		a.snap(ctx)
	case domain.IntentStopCamera:
		a.stopCamera()
	case domain.IntentUpload:
		a.upload(ctx, intent.Payload)
	case domain.IntentWatch:
		a.watch(ctx)
	case domain.IntentUnwatch:
		a.unwatch()
	case domain.IntentAddItem:
		a.addItems(intent.Payload)
	case domain.IntentRemoveItem:
		a.removeItem(intent.Payload)
	case domain.IntentClearBasket:
		a.clearBasket()
	case domain.IntentShowBasket:
		a.showBasket()
	case domain.IntentSuggest:
		a.suggest(ctx)
	case domain.IntentBrowse:
		a.browse()
	case domain.IntentFavorites:
		a.showFavorites()
	case domain.IntentToggleFav:
		a.toggleFav(ctx, intent.Payload)
	case domain.IntentOpen:
		a.open(intent.Payload)
	case domain.IntentNextPage:
		a.page(func(p *view.Pager) bool { return p.Next() })
	case domain.IntentPrevPage:
		a.page(func(p *view.Pager) bool { return p.Prev() })
	case domain.IntentRefresh:
		a.refresh(ctx)
	case domain.IntentStatus:
		a.status()
	case domain.IntentUnknown:
		a.ui.PrintHint("Didn't catch that — try 'help' for the command list.")
	}
}

// ── capture ──────────────────────────────────────────────────────

func (a *cliApp) snap(ctx context.Context) {
	if !a.monitor.Online() {
		a.ui.PrintUrgent("The detection backend is offline — try 'browse' for the bundled recipes.")
		return
	}
	a.ui.PrintHint("Capturing...")
	snap, err := a.camera.Grab()
	if err != nil {
		if errors.Is(err, domain.ErrCameraUnavailable) {
			a.ui.PrintUrgent("No camera found — 'upload <file>' or 'watch' work without one.")
		} else {
			a.ui.PrintUrgent("Capture failed: " + err.Error())
		}
		a.log.Error("snap: %v", err)
		return
	}
	a.detect(ctx, snap)
}

func (a *cliApp) stopCamera() {
	a.camera.Stop()
	a.ui.PrintChat("Camera released.")
}

func (a *cliApp) upload(ctx context.Context, path string) {
	if !a.monitor.Online() {
		a.ui.PrintUrgent("The detection backend is offline — try 'browse' for the bundled recipes.")
		return
	}
	snap, err := capture.FromFile(path)
	if err != nil {
		a.ui.PrintUrgent("Couldn't read that image: " + err.Error())
		return
	}
	a.detect(ctx, snap)
}

func (a *cliApp) watch(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watching {
		a.ui.PrintHint("Already watching " + a.cfg.Capture.DropDir)
		return
	}
	w, err := capture.NewDropWatcher(a.cfg.Capture.DropDir, a.log)
	if err != nil {
		a.ui.PrintUrgent("Couldn't watch the drop folder: " + err.Error())
		return
	}
	a.watcher = w
	a.watching = true
	a.ui.PrintChat("Watching " + a.cfg.Capture.DropDir + " — drop an image there to detect it.")

	go func() {
		for snap := range w.Snapshots() {
			if !a.monitor.Online() {
				a.ui.PrintUrgent("Dropped image ignored: backend is offline.")
				continue
			}
			a.ui.PrintHint("Detected a drop: " + snap.Source)
			a.detect(ctx, snap)
		}
	}()
}

func (a *cliApp) unwatch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.watching {
		a.ui.PrintHint("Not watching anything.")
		return
	}
	a.watcher.Close()
	a.watcher = nil
	a.watching = false
	a.ui.PrintChat("Stopped watching the drop folder.")
}

// detect runs the full snap flow: backend detection, annotated snapshot on
// disk, basket update, then fresh recommendations.
func (a *cliApp) detect(ctx context.Context, snap *capture.Snapshot) {
	a.ui.PrintHint("Looking for ingredients...")
	result, err := a.service.Detect(ctx, snap.DataURL())
	if err != nil {
		a.ui.PrintUrgent("Detection failed: " + err.Error())
		a.log.Error("detect %s: %v", snap.ID, err)
		return
	}

	if len(result.DetectedIngredients) == 0 {
		a.ui.PrintChat("I couldn't spot any ingredients in that shot. Better light helps!")
		return
	}

	if img, err := snap.Decode(); err != nil {
		a.log.Warn("annotate %s: %v", snap.ID, err)
	} else if path, err := overlay.WriteAnnotated(a.cfg.Capture.OutDir, img, snap.ID, result.BoundingBoxes); err != nil {
		a.log.Warn("annotate %s: %v", snap.ID, err)
	} else {
		a.ui.PrintHint("Annotated shot saved to " + path)
	}

	labels := make([]string, len(result.DetectedIngredients))
	for i, ing := range result.DetectedIngredients {
		labels[i] = view.FormatIngredient(ing)
	}
	a.ui.PrintChat("Found: " + strings.Join(labels, ", "))

	added := a.basket.AddAll(result.DetectedIngredients)
	if added > 0 {
		a.notify(ctx, plural(added, "new ingredient")+" added to your basket")
	} else {
		a.ui.PrintHint("All of those were already in your basket.")
	}

	a.suggest(ctx)
}

// ── basket ───────────────────────────────────────────────────────

func (a *cliApp) addItems(payload string) {
	var names []string
	for _, part := range strings.Split(payload, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		a.ui.PrintHint("Nothing to add.")
		return
	}
	added := a.basket.AddAll(names)
	if added == 0 {
		a.ui.PrintHint("Already in your basket.")
		return
	}
	a.showBasket()
}

func (a *cliApp) removeItem(payload string) {
	if a.basket.Remove(payload) {
		a.ui.PrintChat("Removed " + view.FormatIngredient(payload) + ".")
	} else {
		a.ui.PrintHint("That's not in your basket.")
	}
}

func (a *cliApp) clearBasket() {
	a.basket.Clear()
	a.ui.PrintChat("Basket emptied.")
}

func (a *cliApp) showBasket() {
	items := a.basket.Items()
	if len(items) == 0 {
		a.ui.PrintHint("Your basket is empty — 'snap' or 'add <ingredient>' to fill it.")
		return
	}
	a.ui.PrintHeading(plural(len(items), "ingredient") + " in your basket:")
	for _, item := range items {
		a.ui.PrintLine("• " + view.FormatIngredient(item))
	}
}

// ── recipes ──────────────────────────────────────────────────────

func (a *cliApp) suggest(ctx context.Context) {
	if a.basket.Len() == 0 {
		a.ui.PrintHint("Your basket is empty — nothing to match against yet.")
		return
	}
	if !a.monitor.Online() {
		a.ui.PrintUrgent("Backend offline — showing the bundled catalog instead.")
		a.browse()
		return
	}

	recipes, err := a.service.Recommend(ctx, a.basket.Items())
	if err != nil {
		a.ui.PrintUrgent("Couldn't fetch recommendations: " + err.Error())
		a.log.Error("recommend: %v", err)
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintChat("No recipes match your basket yet — keep adding ingredients!")
		return
	}
	a.setListing("Recipes for your basket", recipes)
	a.renderPage()
}

func (a *cliApp) browse() {
	a.setListing("All recipes", a.catalog.All())
	a.renderPage()
}

func (a *cliApp) showFavorites() {
	names := make(map[string]struct{})
	for _, n := range a.favorites.Names() {
		names[n] = struct{}{}
	}
	favs := a.catalog.Named(names)
	if len(favs) == 0 {
		a.ui.PrintHint("No favorites yet — 'fav <number>' on any card to save it.")
		return
	}
	a.setListing("Your favorites", favs)
	a.renderPage()
}

func (a *cliApp) toggleFav(ctx context.Context, payload string) {
	r := a.cardAt(payload)
	if r == nil {
		return
	}
	if a.favorites.Toggle(r.Name) {
		a.notify(ctx, r.Name+" added to favorites")
	} else {
		a.notify(ctx, r.Name+" removed from favorites")
	}
	a.renderPage()
}

func (a *cliApp) open(payload string) {
	r := a.cardAt(payload)
	if r == nil {
		return
	}
	a.ui.PrintDetail(view.BuildDetail(r, a.favorites))
}

func (a *cliApp) page(move func(*view.Pager) bool) {
	a.mu.Lock()
	moved := move(&a.pager)
	a.mu.Unlock()
	if !moved {
		a.ui.PrintHint("No more pages that way.")
		return
	}
	a.renderPage()
}

// refresh pulls the cached app resources through the fetch policy, so a
// stale shell picks up server-side changes without a restart.
func (a *cliApp) refresh(ctx context.Context) {
	a.ui.PrintHint("Refreshing cached resources...")
	ok, failed := a.cache.Refresh(ctx)
	if failed > 0 {
		a.ui.PrintUrgent(plural(failed, "resource") + " unavailable; cached copies stay in use.")
	}
	a.ui.PrintChat(plural(ok, "cached resource") + " up to date.")
}

func (a *cliApp) status() {
	s := a.Status()
	lines := []string{
		"backend: " + a.monitor.State().String(),
		"basket: " + plural(s.BasketCount, "ingredient"),
		"favorites: " + strconv.Itoa(a.favorites.Len()),
	}
	if s.CameraActive {
		lines = append(lines, "camera: on ("+a.cfg.Camera.Device+")")
	} else {
		lines = append(lines, "camera: off")
	}
	if s.Watching {
		lines = append(lines, "watching: "+a.cfg.Capture.DropDir)
	}
	hits, misses := a.cache.Stats()
	lines = append(lines, "asset cache: "+strconv.FormatInt(hits, 10)+" hits / "+strconv.FormatInt(misses, 10)+" misses")
	for _, l := range lines {
		a.ui.PrintLine(l)
	}
}

func (a *cliApp) showHelp() {
	a.ui.PrintHeading("Commands")
	help := [][2]string{
		{"snap", "photograph your ingredients with the webcam"},
		{"stop", "release the webcam"},
		{"upload <file>", "detect ingredients in an image file"},
		{"watch / unwatch", "auto-detect images dropped into " + a.cfg.Capture.DropDir},
		{"add <items>", "add ingredients by hand (comma-separated)"},
		{"remove <item>", "take one ingredient out"},
		{"basket / clear", "show or empty the basket"},
		{"suggest", "recipes matched to your basket"},
		{"browse", "the full built-in catalog"},
		{"favorites", "your saved recipes"},
		{"fav <n>", "save/unsave card n"},
		{"open <n> (or just n)", "full recipe for card n"},
		{"next / prev", "page through results"},
		{"refresh", "re-pull the cached app resources"},
		{"status", "connection, basket, and cache info"},
		{"quit", "exit"},
	}
	for _, h := range help {
		a.ui.PrintLine(padRight(h[0], 22) + h[1])
	}
}

// ── listing state ────────────────────────────────────────────────

func (a *cliApp) setListing(title string, recipes []domain.Recipe) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.title = title
	a.listing = recipes
	a.pager = view.NewPager(len(recipes), a.cfg.View.PageSize)
}

func (a *cliApp) renderPage() {
	a.mu.Lock()
	title := a.title
	start, end := a.pager.Bounds()
	pageRecipes := a.listing[start:end]
	pager := a.pager
	a.mu.Unlock()

	cards := make([]view.Card, len(pageRecipes))
	for i := range pageRecipes {
		cards[i] = view.BuildCard(i+1, &pageRecipes[i], a.favorites)
	}
	a.ui.PrintPage(title, cards, pager)
}

// cardAt resolves a 1-based card number on the current page, printing a
// hint when it doesn't land on anything.
func (a *cliApp) cardAt(payload string) *domain.Recipe {
	n, err := strconv.Atoi(payload)
	if err != nil || n < 1 {
		a.ui.PrintHint("Give me a card number, like 'open 2'.")
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	start, end := a.pager.Bounds()
	idx := start + n - 1
	if idx >= end {
		a.ui.PrintHint("There's no card " + payload + " on this page.")
		return nil
	}
	return &a.listing[idx]
}

func (a *cliApp) notify(ctx context.Context, message string) {
	if err := a.notifier.Notify(ctx, message); err != nil {
		a.log.Warn("notify: %v", err)
	}
}

func (a *cliApp) shutdown() {
	a.camera.Stop()
	a.mu.Lock()
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.mu.Unlock()
}

// ── helpers ──────────────────────────────────────────────────────

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
