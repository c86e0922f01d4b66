package conversation

import (
	"context"
	"testing"

	"github.com/snapbasket/snapbasket/internal/domain"
	"github.com/snapbasket/snapbasket/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input       string
		wantType    domain.IntentType
		wantPayload string
	}{
		// Capture
		{"snap", domain.IntentSnap, ""},
		{"photo", domain.IntentSnap, ""},
		{"stop", domain.IntentStopCamera, ""},
		{"upload ~/pics/fridge.jpg", domain.IntentUpload, "~/pics/fridge.jpg"},
		{"watch", domain.IntentWatch, ""},
		{"unwatch", domain.IntentUnwatch, ""},

		// Basket
		{"add tomato", domain.IntentAddItem, "tomato"},
		{"add red bell pepper", domain.IntentAddItem, "red bell pepper"},
		{"remove onion", domain.IntentRemoveItem, "onion"},
		{"rm onion", domain.IntentRemoveItem, "onion"},
		{"clear", domain.IntentClearBasket, ""},
		{"basket", domain.IntentShowBasket, ""},

		// Recipes
		{"suggest", domain.IntentSuggest, ""},
		{"what can i make?", domain.IntentSuggest, ""},
		{"browse", domain.IntentBrowse, ""},
		{"favorites", domain.IntentFavorites, ""},
		{"fav 3", domain.IntentToggleFav, "3"},
		{"open 2", domain.IntentOpen, "2"},
		{"7", domain.IntentOpen, "7"},

		// Paging and misc
		{"next", domain.IntentNextPage, ""},
		{"prev", domain.IntentPrevPage, ""},
		{"refresh", domain.IntentRefresh, ""},
		{"reload", domain.IntentRefresh, ""},
		{"status", domain.IntentStatus, ""},
		{"help", domain.IntentHelp, ""},
		{"?", domain.IntentHelp, ""},
		{"quit", domain.IntentQuit, ""},
		{"q", domain.IntentQuit, ""},

		// Unknown keeps the raw input
		{"flarb", domain.IntentUnknown, "flarb"},
		{"", domain.IntentUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			intent, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.input, err)
			}
			if intent.Type != tt.wantType {
				t.Errorf("Parse(%q).Type = %s, want %s", tt.input, intent.Type, tt.wantType)
			}
			if intent.Payload != tt.wantPayload {
				t.Errorf("Parse(%q).Payload = %q, want %q", tt.input, intent.Payload, tt.wantPayload)
			}
		})
	}
}

func TestParserCaseInsensitive(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil))
	intent, err := parser.Parse(context.Background(), "  SNAP  ")
	if err != nil {
		t.Fatal(err)
	}
	if intent.Type != domain.IntentSnap {
		t.Errorf("type = %s, want snap", intent.Type)
	}
}

func TestFavWithoutNumberIsUnknown(t *testing.T) {
	parser := NewKeywordParser(logger.New(logger.LevelOff, nil))
	intent, _ := parser.Parse(context.Background(), "fav tomato soup")
	if intent.Type != domain.IntentUnknown {
		t.Errorf("type = %s, want unknown", intent.Type)
	}
}
