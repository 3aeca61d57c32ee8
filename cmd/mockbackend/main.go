// Command mockbackend serves an in-memory scraping backend so the client
// can be tried without the real scraper.
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/go-scripts/scrapeview/pkg/backend/backendtest"
	"github.com/go-scripts/scrapeview/pkg/common"
)

// CLI flags structure
type CLIFlags struct {
	Addr     string `help:"Listen address" default:"127.0.0.1:5000" short:"a"`
	Articles int    `help:"Articles generated per scraped URL" default:"37" short:"n"`
	Seed     int    `help:"Articles present at startup" default:"0"`
	Debug    bool   `help:"Enable debug logging" default:"false"`
}

// articles invents n items for target. Every seventh item has no date,
// which the real backend reports as "Unknown".
func articles(target string, n int) []common.Item {
	host := target
	if u, err := url.Parse(target); err == nil && u.Host != "" {
		host = u.Host
	}
	base := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	items := make([]common.Item, n)
	for i := range items {
		date := base.AddDate(0, 0, -i*3).Format("2006-01-02")
		if i%7 == 6 {
			date = "Unknown"
		}
		items[i] = common.Item{
			Title: fmt.Sprintf("%s article #%d", host, i+1),
			URL:   fmt.Sprintf("https://%s/posts/%d", host, i+1),
			Date:  date,
		}
	}
	return items
}

func main() {
	var flags CLIFlags
	ctx := kong.Parse(&flags, kong.Name("mockbackend"))
	if ctx.Error != nil {
		fmt.Printf("Error parsing flags: %v\n", ctx.Error)
		os.Exit(1)
	}
	if flags.Debug {
		log.SetLevel(log.DebugLevel)
	}

	h := backendtest.NewHandler(articles("https://seed.example.com", flags.Seed), nil)
	h.Fallback = func(target string) []common.Item {
		log.Debug("Generating articles", "url", target, "count", flags.Articles)
		return articles(target, flags.Articles)
	}

	log.Info("Mock backend listening", "addr", flags.Addr)
	if err := http.ListenAndServe(flags.Addr, h); err != nil {
		log.Fatal("Server stopped", "err", err)
	}
}
