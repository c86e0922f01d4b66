package domain

// IntentType classifies what the user wants to do.
type IntentType int

const (
	IntentUnknown IntentType = iota
	IntentSnap        // grab a frame from the camera and detect
	IntentStopCamera  // release the camera without capturing
	IntentUpload      // detect from a local image file
	IntentWatch       // start watching the drop directory
	IntentUnwatch     // stop watching the drop directory
	IntentAddItem     // add ingredients to the basket by hand
	IntentRemoveItem  // remove one ingredient from the basket
	IntentClearBasket // empty the basket
	IntentShowBasket
	IntentSuggest   // fetch recommendations for the current basket
	IntentBrowse    // show the full embedded catalog
	IntentFavorites // show favorited catalog recipes
	IntentToggleFav // flip the heart on a card by number
	IntentOpen      // open the detail view for a card by number
	IntentNextPage
	IntentPrevPage
	IntentRefresh // re-fetch the cached static resources
	IntentStatus
	IntentHelp
	IntentQuit
)

// String returns a human-readable intent type.
func (i IntentType) String() string {
	switch i {
	case IntentSnap:
		return "snap"
	case IntentStopCamera:
		return "stop_camera"
	case IntentUpload:
		return "upload"
	case IntentWatch:
		return "watch"
	case IntentUnwatch:
		return "unwatch"
	case IntentAddItem:
		return "add_item"
	case IntentRemoveItem:
		return "remove_item"
	case IntentClearBasket:
		return "clear_basket"
	case IntentShowBasket:
		return "show_basket"
	case IntentSuggest:
		return "suggest"
	case IntentBrowse:
		return "browse"
	case IntentFavorites:
		return "favorites"
	case IntentToggleFav:
		return "toggle_fav"
	case IntentOpen:
		return "open"
	case IntentNextPage:
		return "next_page"
	case IntentPrevPage:
		return "prev_page"
	case IntentRefresh:
		return "refresh"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	case IntentQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Intent represents a parsed user action.
type Intent struct {
	Type    IntentType
	Payload string // optional context, e.g. a file path or card number
}
