package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	weiboAPIURL   = "https://m.weibo.cn/api/container/getIndex"
	weiboMobileUA = "Mozilla/5.0 (iPhone; CPU iPhone OS 15_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.0 Mobile/15E148 Safari/604.1"

	// card_type of a regular post in the container feed.
	weiboCardPost = 9
)

// Followed accounts, verified as of February 2026.
var weiboUsers = []struct {
	id   string
	name string
}{
	// Official brands
	{"5675889356", "蔚来"},
	{"5710264970", "小鹏汽车"},
	{"6001272153", "理想汽车"},
	{"1746221281", "比亚迪汽车"},
	{"7871239944", "小米汽车"},
	// Founders and executives
	{"1679013335", "李斌"},   // NIO CEO
	{"2455476364", "何小鹏"}, // XPeng chairman
	{"1243861097", "李想"},   // Li Auto CEO
	{"1749127163", "雷军"},   // Xiaomi CEO
}

// WeiboSource scrapes posts from the followed EV accounts through the
// m.weibo.cn container API. The API rejects plain HTTP clients, so a
// headless browser visits m.weibo.cn once to pick up visitor cookies
// and the API calls run from inside that page.
type WeiboSource struct {
	headless bool
}

func NewWeiboSource() *WeiboSource {
	return &WeiboSource{headless: true}
}

func (s *WeiboSource) Name() string { return "Weibo" }

func (s *WeiboSource) Type() string { return SourceWeibo }

// FetchArticles pulls recent posts from every followed account and
// returns the newest limit posts across all of them. One failing
// account does not abort the rest.
func (s *WeiboSource) FetchArticles(ctx context.Context, limit int) ([]Article, error) {
	page, cleanup, err := s.openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	perUser := limit / len(weiboUsers)
	if perUser < 3 {
		perUser = 3
	}

	var articles []Article
	var errs []error
	for _, u := range weiboUsers {
		posts, err := s.fetchUserPosts(page, u.id, u.name, perUser)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", u.name, err))
			continue
		}
		articles = append(articles, posts...)

		if err := randomDelay(ctx, time.Second, 3*time.Second); err != nil {
			return articles, err
		}
	}
	if len(articles) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("all accounts failed: %w", errors.Join(errs...))
	}

	sort.Slice(articles, func(i, j int) bool {
		return articles[i].SourceDate.After(articles[j].SourceDate)
	})
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return articles, nil
}

// openSession launches a headless browser emulating a phone and visits
// m.weibo.cn once so the visitor system issues its cookies.
func (s *WeiboSource) openSession(ctx context.Context) (*rod.Page, func(), error) {
	l := launcher.New().Headless(s.headless)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, fmt.Errorf("failed to connect browser: %w", err)
	}
	cleanup := func() {
		_ = browser.Close()
		l.Cleanup()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: weiboMobileUA}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             375,
		Height:            812,
		DeviceScaleFactor: 2,
		Mobile:            true,
	}); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to set viewport: %w", err)
	}

	if err := page.Timeout(30 * time.Second).Navigate("https://m.weibo.cn/"); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to open m.weibo.cn: %w", err)
	}
	_ = page.Timeout(30 * time.Second).WaitLoad()

	// Let the visitor system finish setting cookies.
	if err := randomDelay(ctx, 2*time.Second, 2*time.Second); err != nil {
		cleanup()
		return nil, nil, err
	}

	return page, cleanup, nil
}

// fetchUserPosts calls the container API from inside the page so the
// visitor cookies apply.
func (s *WeiboSource) fetchUserPosts(page *rod.Page, userID, userName string, limit int) ([]Article, error) {
	apiURL := fmt.Sprintf("%s?type=uid&value=%s&containerid=107603%s", weiboAPIURL, userID, userID)

	res, err := page.Eval(`async (url) => {
		const response = await fetch(url, {
			headers: {
				"Accept": "application/json, text/plain, */*",
				"X-Requested-With": "XMLHttpRequest",
			},
			credentials: "include",
		});
		return await response.text();
	}`, apiURL)
	if err != nil {
		return nil, fmt.Errorf("container api call failed: %w", err)
	}

	return parseWeiboFeed([]byte(res.Value.Str()), userName, limit, time.Now())
}

type weiboResponse struct {
	OK   int    `json:"ok"`
	Msg  string `json:"msg"`
	Data struct {
		Cards []weiboCard `json:"cards"`
	} `json:"data"`
}

type weiboCard struct {
	CardType int        `json:"card_type"`
	Mblog    *weiboPost `json:"mblog"`
}

type weiboPost struct {
	ID        string `json:"id"`
	BID       string `json:"bid"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	User      struct {
		ID int64 `json:"id"`
	} `json:"user"`
	Pics []struct {
		URL   string `json:"url"`
		Large struct {
			URL string `json:"url"`
		} `json:"large"`
	} `json:"pics"`
}

func parseWeiboFeed(data []byte, userName string, limit int, now time.Time) ([]Article, error) {
	var resp weiboResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feed: %w", err)
	}
	if resp.OK != 1 {
		msg := resp.Msg
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("container api error: %s", msg)
	}

	var articles []Article
	for _, card := range resp.Data.Cards {
		if card.CardType != weiboCardPost || card.Mblog == nil {
			continue
		}
		if a, ok := parseWeiboPost(card.Mblog, userName, now); ok {
			articles = append(articles, a)
		}
		if len(articles) >= limit {
			break
		}
	}
	return articles, nil
}

func parseWeiboPost(post *weiboPost, userName string, now time.Time) (Article, bool) {
	text := cleanWeiboText(post.Text)
	if text == "" {
		return Article{}, false
	}

	created := parseWeiboDate(post.CreatedAt, now)

	var media []string
	for _, pic := range post.Pics {
		switch {
		case pic.Large.URL != "":
			media = append(media, pic.Large.URL)
		case pic.URL != "":
			media = append(media, pic.URL)
		}
	}

	bid := post.BID
	if bid == "" {
		bid = post.ID
	}
	sourceURL := fmt.Sprintf("https://weibo.com/%d/%s", post.User.ID, bid)

	title := text
	if r := []rune(text); len(r) > 50 {
		title = string(r[:50]) + "..."
	}

	return Article{
		SourceID:          GenerateSourceID("Weibo", sourceURL, created),
		Source:            SourceWeibo,
		SourceURL:         sourceURL,
		SourceAuthor:      userName,
		SourceDate:        created,
		OriginalTitle:     title,
		OriginalContent:   text,
		OriginalMediaURLs: media,
		Categories:        []string{"Weibo", userName},
		RelevanceScore:    DefaultRelevanceScore,
	}, true
}

var (
	weiboLinkPattern  = regexp.MustCompile(`<a[^>]*>([^<]*)</a>`)
	weiboTagPattern   = regexp.MustCompile(`<[^>]+>`)
	weiboEmojiPattern = regexp.MustCompile(`\[([^\]]+)\]`)
)

// cleanWeiboText strips the HTML the mobile API embeds in post text.
// Link markup keeps its anchor text, emoji shortcodes ("[哈哈]") drop.
func cleanWeiboText(s string) string {
	if s == "" {
		return ""
	}
	s = weiboLinkPattern.ReplaceAllString(s, "$1")
	s = weiboTagPattern.ReplaceAllString(s, "")
	s = weiboEmojiPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(html.UnescapeString(s))
}

var (
	weiboMinutesPattern  = regexp.MustCompile(`^(\d+)分钟前`)
	weiboHoursPattern    = regexp.MustCompile(`^(\d+)小时前`)
	weiboClockPattern    = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	weiboMonthDayPattern = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})`)
)

// parseWeiboDate resolves the mobile API's relative date renderings
// ("刚刚", "5分钟前", "1小时前", "昨天 14:30", "05-20") against now.
// Unparseable values fall back to now.
func parseWeiboDate(s string, now time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return now
	}

	if strings.Contains(s, "刚刚") {
		return now
	}
	if m := weiboMinutesPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Minute)
	}
	if m := weiboHoursPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		return now.Add(-time.Duration(n) * time.Hour)
	}
	if strings.Contains(s, "昨天") {
		yesterday := now.AddDate(0, 0, -1)
		if m := weiboClockPattern.FindStringSubmatch(s); m != nil {
			hour, _ := strconv.Atoi(m[1])
			minute, _ := strconv.Atoi(m[2])
			return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), hour, minute, 0, 0, yesterday.Location())
		}
		return yesterday
	}
	if m := weiboMonthDayPattern.FindStringSubmatch(s); m != nil && len(s) <= 5 {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	}

	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", "Mon Jan 02 15:04:05 -0700 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return now
}
