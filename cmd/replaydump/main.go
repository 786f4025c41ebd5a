package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"gorm.io/gorm"

	"github.com/milk9111/skyhook/telemetry"
)

func main() {
	dbPath := flag.String("db", "skyhook_telemetry.db", "telemetry database to read")
	session := flag.Uint("session", 0, "session id to dump; 0 lists all sessions")
	samples := flag.Bool("samples", false, "also print every frame sample")
	flag.Parse()

	// opening a missing path would create an empty database
	if _, err := os.Stat(*dbPath); err != nil {
		log.Fatalf("no telemetry database at %s", *dbPath)
	}
	db, err := telemetry.Open(*dbPath)
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}

	if *session == 0 {
		err = listSessions(db)
	} else {
		err = dumpSession(db, uint(*session), *samples)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func listSessions(db *gorm.DB) error {
	sessions, err := telemetry.Sessions(db)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSEED\tFRAMES\tSAMPLES\tHITS\tDAMAGE\tLABEL")
	for _, s := range sessions {
		stats, err := telemetry.Stats(db, s.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%.0f\t%s\n",
			s.ID, s.StartedAt.Format("2006-01-02 15:04:05"), s.Seed, s.Frames,
			stats.Samples, stats.Hits, stats.TotalDamage, s.Label)
	}
	return w.Flush()
}

func dumpSession(db *gorm.DB, id uint, withSamples bool) error {
	sessions, err := telemetry.Sessions(db)
	if err != nil {
		return err
	}
	var found *telemetry.Session
	for i := range sessions {
		if sessions[i].ID == id {
			found = &sessions[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("no session %d", id)
	}

	stats, err := telemetry.Stats(db, id)
	if err != nil {
		return err
	}

	ended := "-"
	if found.EndedAt.Valid {
		ended = found.EndedAt.Time.Format("2006-01-02 15:04:05")
	}
	fmt.Printf("session %d  seed %d  label %q\n", found.ID, found.Seed, found.Label)
	fmt.Printf("started %s  ended %s  frames %d\n", found.StartedAt.Format("2006-01-02 15:04:05"), ended, found.Frames)
	fmt.Printf("samples %d  hits %d  damage %.0f  last sampled frame %d\n\n",
		stats.Samples, stats.Hits, stats.TotalDamage, stats.LastFrame)

	records, err := telemetry.Damage(db, id)
	if err != nil {
		return err
	}
	if len(records) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FRAME\tTARGET\tAMOUNT\tSOURCE")
		for _, r := range records {
			fmt.Fprintf(w, "%d\t%d\t%.1f\t%s\n", r.Frame, r.Target, r.Amount, r.Source)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if !withSamples {
		return nil
	}
	frames, err := telemetry.Samples(db, id)
	if err != nil {
		return err
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FRAME\tPOS\tVEL\tHEALTH\tGROUNDED\tHOOKS")
	for _, s := range frames {
		fmt.Fprintf(w, "%d\t%.1f %.1f %.1f\t%.1f %.1f %.1f\t%.0f\t%v\t%s/%s\n",
			s.Frame, s.PosX, s.PosY, s.PosZ, s.VelX, s.VelY, s.VelZ,
			s.Health, s.Grounded, s.LeftHook, s.RightHook)
	}
	return w.Flush()
}
