// fincli is a small terminal client for the fintrack API. It keeps the token
// bundle in ~/.fintrack/session.json and gates authenticated commands through
// the same session store the UI layer uses.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"fintrack/pkg/apiclient"
	"fintrack/pkg/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: fincli [-api URL] <command>")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login -email EMAIL -password PASSWORD")
	fmt.Fprintln(os.Stderr, "  dashboard")
	fmt.Fprintln(os.Stderr, "  report")
	fmt.Fprintln(os.Stderr, "  logout")
	os.Exit(2)
}

func main() {
	api := flag.String("api", envOr("FINTRACK_API", "http://localhost:8081"), "API base URL")
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
	}

	client := apiclient.New(*api)
	if sess := loadSession(); sess != nil {
		client.SetSession(sess)
	}
	// keep the on-disk bundle in step with whatever the client does
	defer client.OnAuthChange(func(ev session.Event, sess *session.Session) {
		switch ev {
		case session.EventSignedIn, session.EventTokenRefreshed:
			saveSession(sess)
		case session.EventSignedOut:
			clearSession()
		}
	})()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	switch flag.Arg(0) {
	case "login":
		cmdLogin(ctx, client, flag.Args()[1:])
	case "dashboard":
		cmdDashboard(ctx, client)
	case "report":
		cmdReport(ctx, client)
	case "logout":
		cmdLogout(ctx, client)
	default:
		usage()
	}
}

func cmdLogin(ctx context.Context, client *apiclient.Client, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)
	if *email == "" || *password == "" {
		log.Fatal("login requires -email and -password")
	}
	sess, err := client.Login(ctx, *email, *password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	fmt.Printf("signed in as %s\n", sess.Email)
}

// gate builds a session store over the client and waits for the initial
// resolution; commands needing auth bail out on a login redirect.
func gate(ctx context.Context, client *apiclient.Client, location string) *session.Store {
	store := session.NewStore(client, session.WithNotifier(session.NotifierFunc(func(title, desc string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, desc)
	})))
	store.Start(ctx)
	for store.IsLoading() {
		time.Sleep(10 * time.Millisecond)
	}
	if d := store.GateProtected(location); d.Action == session.ActionRedirect {
		store.Close()
		log.Fatalf("not signed in (would redirect to %s, returning to %s); run: fincli login", d.Target, d.ReturnTo)
	}
	return store
}

func cmdDashboard(ctx context.Context, client *apiclient.Client) {
	store := gate(ctx, client, "/dashboard")
	defer store.Close()

	d, err := client.Dashboard(ctx)
	if err != nil {
		log.Fatalf("dashboard: %v", err)
	}
	s := d.Summary
	fmt.Printf("This month: income %s, expenses %s, balance %s, savings rate %.1f%%\n",
		money(s.Income), money(s.Expenses), money(s.Balance), s.SavingsRate)
	fmt.Println("Last 6 months:")
	for _, m := range d.Chart {
		fmt.Printf("  %-3s  income %12s  expenses %12s\n", m.Month, money(m.Income), money(m.Expenses))
	}
	if len(d.RecentTransactions) > 0 {
		fmt.Println("Recent transactions:")
		for _, t := range d.RecentTransactions {
			fmt.Printf("  %s  %-7s %10s  %s (%s)\n", t.Date.Format("2006-01-02"), t.Type, money(t.Amount), t.Name, t.Category)
		}
	}
	for _, g := range d.Goals {
		fmt.Printf("Goal %q: %s of %s (%.1f%%)\n", g.Name, money(g.CurrentAmount), money(g.TargetAmount), g.Progress)
	}
}

func cmdReport(ctx context.Context, client *apiclient.Client) {
	store := gate(ctx, client, "/reports")
	defer store.Close()

	r, err := client.MonthlyReport(ctx)
	if err != nil {
		log.Fatalf("report: %v", err)
	}
	if r.HighestExpenseCategory != "" {
		fmt.Printf("Highest expense category: %s (%s)\n", r.HighestExpenseCategory, money(r.HighestExpenseAmount))
	}
	fmt.Printf("Savings rate change vs last month: %+.1f points\n", r.SavingsChange)
	for _, cut := range r.RecommendedBudgetCuts {
		fmt.Printf("Suggested cut: %s by %s\n", cut.Category, money(cut.Amount))
	}
	fmt.Printf("Target savings this month: %s\n", money(r.TargetSavings))
}

func cmdLogout(ctx context.Context, client *apiclient.Client) {
	store := session.NewStore(client, session.WithNotifier(session.NotifierFunc(func(title, desc string) {
		fmt.Fprintf(os.Stderr, "%s: %s\n", title, desc)
	})))
	store.Start(ctx)
	defer store.Close()
	for store.IsLoading() {
		time.Sleep(10 * time.Millisecond)
	}
	// optimistic: local session is cleared even when the server call fails
	_ = store.SignOut(ctx)
}

func money(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func sessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fintrack-session.json"
	}
	return filepath.Join(home, ".fintrack", "session.json")
}

func loadSession() *session.Session {
	buf, err := os.ReadFile(sessionFile())
	if err != nil {
		return nil
	}
	var sess session.Session
	if err := json.Unmarshal(buf, &sess); err != nil {
		return nil
	}
	return &sess
}

func saveSession(sess *session.Session) {
	if sess == nil {
		return
	}
	path := sessionFile()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		log.Printf("cannot persist session: %v", err)
		return
	}
	buf, _ := json.MarshalIndent(sess, "", "  ")
	if err := os.WriteFile(path, buf, 0600); err != nil {
		log.Printf("cannot persist session: %v", err)
	}
}

func clearSession() {
	_ = os.Remove(sessionFile())
}
