package translator

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
)

// DefaultSearchQuery is used when a search command names nothing to look for
const DefaultSearchQuery = "recent files"

var searchPattern = regexp.MustCompile(`(?:search|find)\s+(.+)`)

// openRule maps "open" plus a keyword to an application
type openRule struct {
	keyword string
	appID   string
	message string
}

// Checked in order; the planner rule comes first.
var openRules = []openRule{
	{"planner", catalog.StudyPlanner, "Opening the Study Planner application for you."},
	{"settings", catalog.SystemSettings, "Opening Settings for you."},
	{"explorer", catalog.FileExplorer, "Opening the File System for you."},
	{"about", catalog.AboutOS, "Opening About Nexus OS for you."},
}

// Keyword is the offline translator. It matches a few keywords the way the
// desktop demo always has and never fails.
type Keyword struct{}

// NewKeyword creates a keyword translator
func NewKeyword() *Keyword {
	return &Keyword{}
}

// Translate implements Translator
func (k *Keyword) Translate(ctx context.Context, text string) (types.CommandResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.CommandResponse{}, err
	}

	lower := strings.ToLower(text)

	if strings.Contains(lower, "open") {
		for _, r := range openRules {
			if strings.Contains(lower, r.keyword) {
				return types.CommandResponse{
					Message: r.message,
					Intent: types.Intent{
						Kind:    types.IntentOpenApplication,
						Payload: map[string]interface{}{"app_id": r.appID},
					},
				}, nil
			}
		}
	}

	if strings.Contains(lower, "search") || strings.Contains(lower, "find") {
		query := DefaultSearchQuery
		if m := searchPattern.FindStringSubmatch(lower); m != nil {
			query = m[1]
		}
		return types.CommandResponse{
			Message: fmt.Sprintf(`Searching the virtual file system for: "%s"`, query),
			Intent: types.Intent{
				Kind:    types.IntentSearchFileSystem,
				Payload: map[string]interface{}{"query": query},
			},
		}, nil
	}

	return types.CommandResponse{
		Message: fmt.Sprintf(`I heard you say: "%s". How else can I assist?`, text),
		Intent:  types.NoIntent(),
	}, nil
}
