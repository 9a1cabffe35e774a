package scrape

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// NioPowerURL is the JS-rendered charger map dashboard.
const NioPowerURL = "https://chargermap.nio.com/pe/h5/static/chargermap#/"

// NioPowerSnapshot is one reading of NIO's charging and swapping
// infrastructure counters.
type NioPowerSnapshot struct {
	AsOfTime               time.Time `json:"asOfTime"`
	TotalStations          int       `json:"totalStations"`
	SwapStations           int       `json:"swapStations"`
	HighwaySwapStations    int       `json:"highwaySwapStations"`
	CumulativeSwaps        int       `json:"cumulativeSwaps"`
	ChargingStations       int       `json:"chargingStations"`
	ChargingPiles          int       `json:"chargingPiles"`
	CumulativeCharges      int       `json:"cumulativeCharges"`
	ThirdPartyPiles        int       `json:"thirdPartyPiles"`
	ThirdPartyUsagePercent float64   `json:"thirdPartyUsagePercent"`
}

// Validate rejects snapshots captured mid animation: the cumulative
// counters sit in the millions and the swap network in the hundreds.
func (d *NioPowerSnapshot) Validate() error {
	if d.CumulativeSwaps < 1_000_000 {
		return fmt.Errorf("cumulativeSwaps %d looks like mid-animation data", d.CumulativeSwaps)
	}
	if d.CumulativeCharges < 1_000_000 {
		return fmt.Errorf("cumulativeCharges %d looks like mid-animation data", d.CumulativeCharges)
	}
	if d.SwapStations < 100 {
		return fmt.Errorf("swapStations %d looks like mid-animation data", d.SwapStations)
	}
	return nil
}

// FindNumberAfter returns the first integer, commas allowed, within
// window runes after label in text.
func FindNumberAfter(text, label string, window int) (int, bool) {
	pattern := regexp.MustCompile(regexp.QuoteMeta(label) + `[\s\S]{0,` + strconv.Itoa(window) + `}?([\d,]+)`)
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, false
	}
	return v, true
}

// FindFloatAfter returns the first float or percentage within window
// runes after label in text.
func FindFloatAfter(text, label string, window int) (float64, bool) {
	pattern := regexp.MustCompile(regexp.QuoteMeta(label) + `[\s\S]{0,` + strconv.Itoa(window) + `}?([\d,.]+)%?`)
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FindSlashPair returns two slash-separated integers within window
// runes after label, e.g. "4,898 / 28,035".
func FindSlashPair(text, label string, window int) (int, int, bool) {
	pattern := regexp.MustCompile(regexp.QuoteMeta(label) + `[\s\S]{0,` + strconv.Itoa(window) + `}?([\d,]+)\s*/\s*([\d,]+)`)
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	first, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0, 0, false
	}
	second, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", ""))
	if err != nil {
		return 0, 0, false
	}
	return first, second, true
}

var snapshotTimePattern = regexp.MustCompile(`截至\s*([\d.]+)\s+([\d:]+)`)

// parseSnapshotTime reads the "截至 2026.02.06 15:29:51" banner. The
// seconds part is optional.
func parseSnapshotTime(text string) (time.Time, bool) {
	m := snapshotTimePattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	date := strings.ReplaceAll(m[1], ".", "-")
	switch strings.Count(m[2], ":") {
	case 2:
		if t, err := time.Parse("2006-1-2 15:04:05", date+" "+m[2]); err == nil {
			return t, true
		}
	case 1:
		if t, err := time.Parse("2006-1-2 15:04", date+" "+m[2]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Counter labels on the charger map dashboard.
const (
	labelTotalStations       = "蔚来能源充换电站总数"
	labelSwapStations        = "蔚来能源换电站"
	labelHighwaySwap         = "其中高速公路换电站"
	labelCumulativeSwaps     = "实时累计换电次数"
	labelCumulativeCharges   = "实时累计充电次数"
	labelThirdPartyPiles     = "接入第三方充电桩"
	labelThirdPartyUsage     = "第三方用户占比"
	labelThirdPartyUsageLong = "蔚来能源充电桩电量第三方用户占比"
	labelChargingSlash       = "蔚来能源充电站"
	labelChargingSlashAlt    = "充电站"
)

// Proximity windows between a label and its value.
const (
	numberWindow = 50
	slashWindow  = 80
)

// ParseSnapshotText extracts the dashboard counters from page text. A
// snapshot missing more than 3 of its 7 required counters is rejected;
// the page most likely had not finished rendering.
func ParseSnapshotText(text string) (*NioPowerSnapshot, error) {
	if text == "" {
		return nil, errors.New("empty page text")
	}

	asOf, ok := parseSnapshotTime(text)
	if !ok {
		return nil, errors.New("missing 截至 timestamp")
	}

	totalStations, totalOK := FindNumberAfter(text, labelTotalStations, numberWindow)
	swapStations, swapOK := FindNumberAfter(text, labelSwapStations, numberWindow)
	highwaySwap, highwayOK := FindNumberAfter(text, labelHighwaySwap, numberWindow)
	cumulativeSwaps, cumSwapsOK := FindNumberAfter(text, labelCumulativeSwaps, numberWindow)
	cumulativeCharges, cumChargesOK := FindNumberAfter(text, labelCumulativeCharges, numberWindow)
	thirdPartyPiles, _ := FindNumberAfter(text, labelThirdPartyPiles, numberWindow)

	thirdPartyUsage, usageOK := FindFloatAfter(text, labelThirdPartyUsage, numberWindow)
	if !usageOK {
		thirdPartyUsage, _ = FindFloatAfter(text, labelThirdPartyUsageLong, numberWindow)
	}

	chargingStations, chargingPiles, slashOK := FindSlashPair(text, labelChargingSlash, slashWindow)
	if !slashOK {
		chargingStations, chargingPiles, slashOK = FindSlashPair(text, labelChargingSlashAlt, slashWindow)
	}

	// Stations and piles arrive as one slash pair, so slashOK counts
	// for both.
	missing := 0
	for _, present := range [...]bool{totalOK, swapOK, highwayOK, cumSwapsOK, cumChargesOK, slashOK, slashOK} {
		if !present {
			missing++
		}
	}
	if missing > 3 {
		return nil, fmt.Errorf("too many missing fields (%d of 7)", missing)
	}

	return &NioPowerSnapshot{
		AsOfTime:               asOf,
		TotalStations:          totalStations,
		SwapStations:           swapStations,
		HighwaySwapStations:    highwaySwap,
		CumulativeSwaps:        cumulativeSwaps,
		ChargingStations:       chargingStations,
		ChargingPiles:          chargingPiles,
		CumulativeCharges:      cumulativeCharges,
		ThirdPartyPiles:        thirdPartyPiles,
		ThirdPartyUsagePercent: thirdPartyUsage,
	}, nil
}

// NioPowerScraper drives a headless browser against the charger map
// SPA. The counters render through digit-flip animations, so the
// scrape waits until no animating digit remains before reading them.
type NioPowerScraper struct {
	url          string
	maxWait      time.Duration
	pollInterval time.Duration
}

// NewNioPowerScraper returns a scraper for the given dashboard URL,
// defaulting to NioPowerURL when empty.
func NewNioPowerScraper(url string) *NioPowerScraper {
	if url == "" {
		url = NioPowerURL
	}
	return &NioPowerScraper{
		url:          url,
		maxWait:      30 * time.Second,
		pollInterval: 2 * time.Second,
	}
}

// Scrape loads the dashboard and parses the rendered counters.
func (s *NioPowerScraper) Scrape(ctx context.Context) (*NioPowerSnapshot, error) {
	text, err := s.fetchPageText(ctx)
	if err != nil {
		return nil, err
	}
	return ParseSnapshotText(text)
}

func (s *NioPowerScraper) fetchPageText(ctx context.Context) (string, error) {
	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return "", fmt.Errorf("failed to connect browser: %w", err)
	}
	defer func() {
		_ = browser.Close()
		l.Cleanup()
	}()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            720,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", fmt.Errorf("failed to set viewport: %w", err)
	}
	if err := (proto.EmulationSetLocaleOverride{Locale: "zh-CN"}).Call(page); err != nil {
		return "", fmt.Errorf("failed to set locale: %w", err)
	}

	// The SPA holds connections open forever, so only wait for the
	// navigation itself and then poll for content.
	if err := page.Timeout(30 * time.Second).Navigate(s.url); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	// The 截至 banner is the sign the data has arrived.
	s.pollUntil(ctx, page, `() => document.body.innerText.includes('截至')`)

	// Animating digits carry class "refresh"; wait until none remain.
	s.pollUntil(ctx, page, `() => document.querySelectorAll('li.refresh').length === 0`)

	// Trailing CSS transitions.
	if err := randomDelay(ctx, 2*time.Second, 2*time.Second); err != nil {
		return "", err
	}

	// Read the digit-flip counters structurally (nearest h6 label plus
	// the joined digits), then append the full innerText for the
	// remaining labels and the timestamp.
	res, err := page.Eval(`() => {
		let parts = [];
		document.querySelectorAll('.pe-biz-digit-flip').forEach(ul => {
			const section = ul.closest('div')?.parentElement;
			const h6 = section ? section.querySelector('h6') : null;
			if (h6) {
				const digits = Array.from(ul.querySelectorAll('li'))
					.map(li => li.innerText.trim())
					.join('');
				parts.push(h6.innerText + ' ' + digits);
			}
		});
		return parts.join('\n') + '\n' + document.body.innerText;
	}`)
	if err != nil {
		return "", fmt.Errorf("failed to extract page text: %w", err)
	}
	return res.Value.Str(), nil
}

// pollUntil evaluates the predicate every pollInterval until it holds
// or maxWait elapses. Timing out is not fatal; extraction proceeds with
// whatever rendered.
func (s *NioPowerScraper) pollUntil(ctx context.Context, page *rod.Page, predicate string) {
	deadline := time.Now().Add(s.maxWait)
	for time.Now().Before(deadline) {
		res, err := page.Eval(predicate)
		if err == nil && res.Value.Bool() {
			return
		}
		if err := randomDelay(ctx, s.pollInterval, s.pollInterval); err != nil {
			return
		}
	}
}
