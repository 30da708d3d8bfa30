package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ctecg/score-api/pkg/scoreclient"
)

// scoreboard polls the public leaderboard and renders it to the terminal,
// for office wallboard displays.
func main() {
	var (
		apiURL   = flag.String("api", "http://localhost:8080/api", "score API base URL")
		interval = flag.Duration("interval", 30*time.Second, "poll interval")
		year     = flag.Int("year", 0, "leaderboard year (0 = current)")
		month    = flag.Int("month", 0, "leaderboard month (0 = current)")
		limit    = flag.Int("limit", 10, "number of entries to show")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := scoreclient.New(*apiURL)
	params := scoreclient.LeaderboardParams{Year: *year, Month: *month, Limit: *limit}

	poller := scoreclient.NewPoller(client, *interval, params, render)
	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "poller stopped: %v\n", err)
		os.Exit(1)
	}
}

func render(lb *scoreclient.Leaderboard, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "[%s] fetch failed: %v\n", time.Now().Format("15:04:05"), err)
		return
	}

	fmt.Print("\033[H\033[2J")
	fmt.Printf("Ctecg Score - %s %d (updated %s)\n\n",
		lb.Period.MonthName, lb.Period.Year, time.Now().Format("15:04:05"))

	for _, entry := range lb.Leaderboard {
		marker := "  "
		if entry.RankPosition <= 3 {
			marker = []string{"🥇", "🥈", "🥉"}[entry.RankPosition-1]
		}
		fmt.Printf("%s %2d. %-25s %5d pts  %6s%%  (%d ratings)\n",
			marker, entry.RankPosition, entry.Name,
			entry.PointsThisMonth, entry.AvgPercentThisMonth, entry.RatingsThisMonth)
	}
}
