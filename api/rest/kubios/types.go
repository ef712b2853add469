package kubios

import (
	"context"
	"encoding/json"

	"github.com/diabalance/server/internal/kubios"
)

// DataFetcher reads measurement data from Kubios Cloud with a user's token
type DataFetcher interface {
	Results(ctx context.Context, idToken string) (json.RawMessage, error)
	UserInfo(ctx context.Context, idToken string) (*kubios.UserProfile, error)
}

// TokenSource resolves the stored Kubios token for a user; empty when none
// is usable
type TokenSource interface {
	Get(ctx context.Context, userID int64) (string, error)
}

// UserInfoResponse wraps the remote Kubios profile
type UserInfoResponse struct {
	User *kubios.UserProfile `json:"user"`
}

// DayDataResponse is the filtered measurement view for one date
type DayDataResponse struct {
	Date    string                `json:"date"`
	Results []kubios.DailySummary `json:"results"`
	Saved   bool                  `json:"saved"`
}
