// The stats command prints an offline report over the recorded games: win
// and bust rates, decision response times, and average hand values per team.
//
// Hand values are reported two ways: with the fixed-ace scoring the game
// itself uses (ace always 11) and with a soft-ace adjustment (aces drop to 1
// while the hand is over 21). The game's scoring is authoritative; the
// adjusted column exists to show how far the fixed rule skews the totals.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/pitboss/pitboss/internal/core/data"
	"github.com/pitboss/pitboss/internal/game"
)

var (
	dbFlag   = flag.String("db", "games.db", "Path to the game database")
	teamFlag = flag.String("team", "", "Only report on a single team")
)

type teamReport struct {
	name          string
	games         int
	rounds        int
	playerWins    int
	dealerWins    int
	ties          int
	playerBusts   int
	dealerBusts   int
	responseCount int
	responseTotal float64
	fixedSumTotal int
	softSumTotal  int
	handCount     int
}

func main() {
	flag.Parse()

	db, err := data.Initialize(*dbFlag, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer data.Shutdown(db)

	var records []data.GameRecord
	if *teamFlag != "" {
		records, err = data.FindGameRecordsByTeam(db, *teamFlag)
	} else {
		records, err = data.AllGameRecords(db)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading game records: %v\n", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		fmt.Println("no recorded games")
		return
	}

	reports, err := buildReports(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error aggregating records: %v\n", err)
		os.Exit(1)
	}
	printReports(reports)
}

func buildReports(records []data.GameRecord) ([]*teamReport, error) {
	byTeam := make(map[string]*teamReport)
	for _, record := range records {
		report := byTeam[record.TeamName]
		if report == nil {
			report = &teamReport{name: record.TeamName}
			byTeam[record.TeamName] = report
		}
		if err := accumulate(report, &record); err != nil {
			return nil, fmt.Errorf("game %s: %w", record.SessionID, err)
		}
	}

	reports := make([]*teamReport, 0, len(byTeam))
	for _, report := range byTeam {
		reports = append(reports, report)
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].name < reports[j].name })
	return reports, nil
}

func accumulate(report *teamReport, record *data.GameRecord) error {
	report.games++
	report.rounds += record.NumRounds
	report.playerWins += record.PlayerWins
	report.dealerWins += record.DealerWins
	report.ties += record.Ties

	playerBusts, err := data.UnmarshalIntSlice(record.PlayerBustRounds)
	if err != nil {
		return err
	}
	dealerBusts, err := data.UnmarshalIntSlice(record.DealerBustRounds)
	if err != nil {
		return err
	}
	report.playerBusts += len(playerBusts)
	report.dealerBusts += len(dealerBusts)

	responseRounds, err := data.UnmarshalResponseTimes(record.ResponseTimes)
	if err != nil {
		return err
	}
	for _, samples := range responseRounds {
		for _, sample := range samples {
			report.responseCount++
			report.responseTotal += sample
		}
	}

	playerRounds, err := data.UnmarshalCardRounds(record.PlayerCards)
	if err != nil {
		return err
	}
	for _, cards := range playerRounds {
		fixed := 0
		for _, c := range cards {
			fixed += c.Value()
		}
		report.fixedSumTotal += fixed
		report.softSumTotal += game.SoftSum(cards)
		report.handCount++
	}
	return nil
}

func printReports(reports []*teamReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEAM\tGAMES\tROUNDS\tWIN%\tBUST%\tDEALER BUST%\tAVG RESPONSE\tAVG HAND\tAVG HAND (SOFT ACE)")

	for _, r := range reports {
		avgResponse := 0.0
		if r.responseCount > 0 {
			avgResponse = r.responseTotal / float64(r.responseCount)
		}
		avgFixed, avgSoft := 0.0, 0.0
		if r.handCount > 0 {
			avgFixed = float64(r.fixedSumTotal) / float64(r.handCount)
			avgSoft = float64(r.softSumTotal) / float64(r.handCount)
		}

		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.3fs\t%.1f\t%.1f\n",
			r.name,
			r.games,
			r.rounds,
			percent(r.playerWins, r.rounds),
			percent(r.playerBusts, r.rounds),
			percent(r.dealerBusts, r.rounds),
			avgResponse,
			avgFixed,
			avgSoft,
		)
	}
	w.Flush()
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return 100 * float64(part) / float64(whole)
}
