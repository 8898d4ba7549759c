package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/jakechorley/peninsula-roster/internal/config"
	"github.com/jakechorley/peninsula-roster/pkg/utils"
)

// Client wraps the Gmail API client
type Client struct {
	service *gmail.Service
	ctx     context.Context

	userID   string
	sender   string
	interval time.Duration

	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient creates a Gmail client from a token obtained by the Sheets client.
// Sends are spaced at least interval apart.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token, cfg *config.Config) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	userID := cfg.GmailUserID
	if userID == "" {
		userID = "me"
	}

	return &Client{
		service:  service,
		ctx:      ctx,
		userID:   userID,
		sender:   cfg.GmailSender,
		interval: cfg.EmailDelay,
	}, nil
}
