package feedproxy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/lobbyboard/lobbyboard/internal/db/controller/setting"
	"github.com/lobbyboard/lobbyboard/internal/display"
)

const (
	// DefaultAlertURL is the national emergency-alert feed.
	DefaultAlertURL = "https://www.oref.org.il/WarningMessages/alert/alerts.json"

	// alertTimeout keeps the alert poll short; displays poll it frequently.
	alertTimeout = 3 * time.Second

	alertUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36" +
		" (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	alertReferer = "https://www.oref.org.il/"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// emptyAlert is the "no active alert" payload.
var emptyAlert = []byte("{}")

// alerts is the alert feed endpoint. Failures are swallowed: a broken
// upstream must look like "no alert", never like a dead display.
var alerts = Endpoint{
	Name:        "alerts",
	ContentType: "application/json",
	Timeout:     alertTimeout,
	Header: map[string]string{
		"User-Agent":       alertUserAgent,
		"Referer":          alertReferer,
		"X-Requested-With": "XMLHttpRequest",
	},
	OnFailure: Swallow,
}

// AlertService checks the emergency-alert feed, honouring the admin
// test-alert override.
type AlertService struct {
	db     *gorm.DB
	client *http.Client

	// URL of the upstream alert feed, overridable in tests.
	URL string
}

// NewAlertService creates the alert checker against the default feed.
func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{
		db:     db,
		client: &http.Client{},
		URL:    DefaultAlertURL,
	}
}

// Fetch returns the current alert payload as JSON. With the test-alert
// setting active it synthesizes a canned alert without any network call;
// otherwise it polls the upstream feed. It never returns an error — any
// upstream failure degrades to the empty "no alert" object.
func (s *AlertService) Fetch(ctx context.Context) []byte {
	testMode, err := setting.Get(s.db, display.KeyTestAlert, display.Default(display.KeyTestAlert))
	if err != nil {
		log.Error().Err(err).Msg("failed to read test alert flag")
	}

	if testMode == "true" {
		return s.testAlert()
	}

	body, err := alerts.Fetch(ctx, s.client, s.URL)
	if err != nil {
		log.Debug().Err(err).Msg("alert feed unreachable, reporting no alert")
		return emptyAlert
	}

	// upstream may prefix the body with a UTF-8 BOM
	body = bytes.TrimPrefix(body, utf8BOM)
	if len(bytes.TrimSpace(body)) == 0 {
		return emptyAlert
	}

	return body
}

// testAlert synthesizes the canned alert for the first configured zone.
func (s *AlertService) testAlert() []byte {
	zones, err := setting.Get(s.db, display.KeyAlertZones, display.Default(display.KeyAlertZones))
	if err != nil {
		log.Error().Err(err).Msg("failed to read alert zones")
	}

	data := []string{}
	if first := strings.TrimSpace(strings.SplitN(zones, ",", 2)[0]); first != "" {
		data = append(data, first)
	}

	payload, err := json.Marshal(map[string]any{
		"id":      "12345",
		"cat":     "1",
		"title":   "בדיקה בלבד",
		"data":    data,
		"desc":    "אנא היכנסו למרחב מוגן",
		"is_test": true,
	})
	if err != nil {
		return emptyAlert
	}

	return payload
}

// SetTestAlert toggles the admin test-alert override.
func (s *AlertService) SetTestAlert(active bool) error {
	_, err := setting.Set(s.db, display.KeyTestAlert, strconv.FormatBool(active))

	return err
}
