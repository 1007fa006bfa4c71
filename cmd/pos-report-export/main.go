package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/prashantisarees/pos_reports_backend/config"
	"github.com/prashantisarees/pos_reports_backend/odoosync"
	"github.com/prashantisarees/pos_reports_backend/utils"
)

func main() {
	branch := flag.String("branch", "", "Branch name, one of: "+strings.Join(odoosync.BranchNames(), ", "))
	from := flag.String("from", "", "Start date (YYYY-MM-DD). Required unless -preset is given.")
	to := flag.String("to", "", "End date (YYYY-MM-DD), inclusive. Required unless -preset is given.")
	preset := flag.String("preset", "", "Optional date preset: today, yesterday, last7days, last30days, thisMonth, lastMonth. Overrides -from/-to.")
	out := flag.String("out", "", "Output path for the workbook. Defaults to the generated filename in the current directory.")
	terminalIDs := flag.String("terminal-ids", "", "Optional comma-separated pos.config ids to restrict the run to.")
	flag.Parse()

	if strings.TrimSpace(*branch) == "" {
		fmt.Fprintln(os.Stderr, "-branch is required")
		flag.Usage()
		os.Exit(1)
	}

	fromDate, toDate, err := resolveRange(*preset, *from, *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ids, err := parseIDList(*terminalIDs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -terminal-ids: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadOdooConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	client, err := odoosync.NewClient(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	svc := odoosync.NewService(client, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := svc.GenerateReport(ctx, odoosync.ReportRequest{
		Branch:      strings.TrimSpace(*branch),
		FromDate:    fromDate,
		ToDate:      toDate,
		TerminalIDs: ids,
	}, func(phase string, fraction float64) {
		fmt.Fprintf(os.Stderr, "\r%s %3.0f%%", phase, fraction*100)
		if fraction >= 1 {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "report failed: %v\n", err)
		os.Exit(1)
	}

	target := strings.TrimSpace(*out)
	if target == "" {
		target = result.Filename
	} else if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		target = filepath.Join(target, result.Filename)
	}
	if err := os.WriteFile(target, result.Workbook, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write workbook: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s\n", target)
	fmt.Printf("orders: %d  revenue: %s  customers: %d  avg order: %s\n",
		result.Totals.OrderCount,
		result.Totals.TotalRevenue.StringFixed(2),
		result.Totals.UniqueCustomers,
		result.Totals.AverageOrderValue.StringFixed(2),
	)
}

func resolveRange(preset, from, to string) (time.Time, time.Time, error) {
	if strings.TrimSpace(preset) != "" {
		return odoosync.PresetRange(strings.TrimSpace(preset), time.Now())
	}
	if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-from and -to are required when -preset is not given")
	}
	fromDate, err := time.Parse("2006-01-02", strings.TrimSpace(from))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -from: %v", err)
	}
	toDate, err := time.Parse("2006-01-02", strings.TrimSpace(to))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid -to: %v", err)
	}
	if toDate.Before(fromDate) {
		return time.Time{}, time.Time{}, fmt.Errorf("-to is before -from")
	}
	return utils.StartOfDay(fromDate), utils.EndOfDay(toDate), nil
}

func parseIDList(csv string) ([]int64, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
