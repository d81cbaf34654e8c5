package appstore

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/kapu/localization-connect-go/internal/constants"
	"github.com/kapu/localization-connect-go/internal/domain"
	"github.com/kapu/localization-connect-go/pkg/errors"
)

const (
	typeVersionLocalizations = "appStoreVersionLocalizations"
	typeVersions             = "appStoreVersions"
)

type resourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type versionResource struct {
	ID         string `json:"id"`
	Attributes struct {
		VersionString string `json:"versionString"`
		AppStoreState string `json:"appStoreState"`
	} `json:"attributes"`
}

type localizationResource struct {
	ID         string         `json:"id"`
	Attributes map[string]any `json:"attributes"`
}

type pageLinks struct {
	Next string `json:"next"`
}

type versionsResponse struct {
	Data []versionResource `json:"data"`
}

type localizationsResponse struct {
	Data  []localizationResource `json:"data"`
	Links pageLinks              `json:"links"`
}

type localizationResponse struct {
	Data localizationResource `json:"data"`
}

type apiErrorsBody struct {
	Errors []struct {
		Status string `json:"status"`
		Code   string `json:"code"`
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func (b *apiErrorsBody) details() string {
	parts := make([]string, 0, len(b.Errors))
	for _, e := range b.Errors {
		switch {
		case e.Detail != "":
			parts = append(parts, e.Detail)
		case e.Title != "":
			parts = append(parts, e.Title)
		}
	}
	return strings.Join(parts, "; ")
}

// Client is a minimal App Store Connect JSON:API client. Every request is
// signed with a token freshly minted by the configured TokenSource.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

func NewClient(baseURL string, tokens oauth2.TokenSource, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = constants.AppStoreConfig.BaseURL
	}

	transport := &oauth2.Transport{
		Source: tokens,
		Base:   http.DefaultTransport,
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTransport(transport).
		SetTimeout(constants.AppStoreConfig.Timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: client, logger: logger}
}

// FindVersion returns the app's version for platform. An empty
// versionString selects the most recent one.
func (c *Client) FindVersion(ctx context.Context, appID string, platform domain.Platform, versionString string) (*domain.AppVersion, error) {
	var resp versionsResponse
	req := c.http.R().
		SetContext(ctx).
		SetPathParam("appID", appID).
		SetQueryParam("filter[platform]", platform.String()).
		SetResult(&resp)
	if versionString != "" {
		req.SetQueryParam("filter[versionString]", versionString)
	} else {
		req.SetQueryParam("limit", "1")
	}

	if err := c.do(req, http.MethodGet, "/apps/{appID}/appStoreVersions", "find_version"); err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		key := versionString
		if key == "" {
			key = "latest"
		}
		return nil, errors.NewRemoteNotFoundError(fmt.Sprintf("%s version", platform), key)
	}

	v := resp.Data[0]
	c.logger.Info("Found version",
		zap.String("platform", platform.String()),
		zap.String("version", v.Attributes.VersionString),
		zap.String("state", v.Attributes.AppStoreState),
	)
	return &domain.AppVersion{
		ID:            v.ID,
		VersionString: v.Attributes.VersionString,
		State:         v.Attributes.AppStoreState,
	}, nil
}

// ListLocalizations fetches every localization of a version, following
// links.next until the last page.
func (c *Client) ListLocalizations(ctx context.Context, versionID string) ([]domain.RemoteLocalizationRecord, error) {
	records := make([]domain.RemoteLocalizationRecord, 0)

	next := ""
	for page := 0; ; page++ {
		var resp localizationsResponse
		req := c.http.R().SetContext(ctx).SetResult(&resp)

		url := next
		if page == 0 {
			req.SetPathParam("versionID", versionID).
				SetQueryParam("limit", strconv.Itoa(constants.AppStoreConfig.PageLimit))
			url = "/appStoreVersions/{versionID}/appStoreVersionLocalizations"
		}

		if err := c.do(req, http.MethodGet, url, "list_localizations"); err != nil {
			return nil, err
		}

		for _, loc := range resp.Data {
			records = append(records, toRecord(loc))
		}

		if resp.Links.Next == "" || resp.Links.Next == next {
			return records, nil
		}
		next = resp.Links.Next
	}
}

// CreateLocalization creates an empty localization and returns its id.
func (c *Client) CreateLocalization(ctx context.Context, versionID, localeCode string) (string, error) {
	body := map[string]any{
		"data": map[string]any{
			"type":       typeVersionLocalizations,
			"attributes": map[string]string{"locale": localeCode},
			"relationships": map[string]any{
				"appStoreVersion": map[string]any{
					"data": resourceIdentifier{Type: typeVersions, ID: versionID},
				},
			},
		},
	}

	var resp localizationResponse
	req := c.http.R().SetContext(ctx).SetBody(body).SetResult(&resp)
	if err := c.do(req, http.MethodPost, "/appStoreVersionLocalizations", "create_localization"); err != nil {
		return "", err
	}
	if resp.Data.ID == "" {
		return "", errors.NewTransportError("create localization returned no id", "appstore", "create_localization", 0, nil)
	}
	return resp.Data.ID, nil
}

// UpdateLocalization patches the given fields. Only the keys present in
// fields are sent.
func (c *Client) UpdateLocalization(ctx context.Context, localizationID string, fields map[domain.FieldKey]string) error {
	attributes := make(map[string]string, len(fields))
	for _, key := range domain.SortFields(fields) {
		if !key.IsValid() {
			continue
		}
		attributes[key.Attribute()] = fields[key]
	}

	body := map[string]any{
		"data": map[string]any{
			"type":       typeVersionLocalizations,
			"id":         localizationID,
			"attributes": attributes,
		},
	}

	req := c.http.R().
		SetContext(ctx).
		SetPathParam("localizationID", localizationID).
		SetBody(body)
	return c.do(req, http.MethodPatch, "/appStoreVersionLocalizations/{localizationID}", "update_localization")
}

func (c *Client) do(req *resty.Request, method, url, operation string) error {
	var apiErr apiErrorsBody
	req.SetError(&apiErr)

	resp, err := req.Execute(method, url)
	if err != nil {
		return errors.NewTransportError("App Store Connect request failed", "appstore", operation, 0, err)
	}
	if resp.IsError() {
		detail := apiErr.details()
		if detail == "" {
			detail = strings.TrimSpace(resp.String())
		}
		c.logger.Warn("App Store Connect API error",
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode()),
			zap.String("detail", detail),
		)
		return errors.NewTransportError(
			fmt.Sprintf("App Store Connect %s returned %d: %s", operation, resp.StatusCode(), detail),
			"appstore", operation, resp.StatusCode(), nil,
		)
	}
	return nil
}

func toRecord(loc localizationResource) domain.RemoteLocalizationRecord {
	record := domain.RemoteLocalizationRecord{
		RemoteID:      loc.ID,
		CurrentFields: make(map[domain.FieldKey]string),
	}
	if code, ok := loc.Attributes["locale"].(string); ok {
		record.LocaleCode = code
	}
	for _, key := range domain.AllFields {
		if value, ok := loc.Attributes[key.Attribute()].(string); ok {
			record.CurrentFields[key] = value
		}
	}
	return record
}
