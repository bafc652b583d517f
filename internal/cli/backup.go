package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/adpulse/internal/adapters/storage"
	"github.com/emiliopalmerini/adpulse/internal/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot and restore all records",
	Long: `Backups are compressed JSON snapshots kept in the XDG data directory
(~/.local/share/adpulse/backups). Restore into an empty database.`,
}

var backupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Write a snapshot of every record",
	RunE:  withApp(runBackupCreate),
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots",
	RunE:  runBackupList,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Restore a snapshot into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runBackupRestore),
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupDelete,
}

var backupName string

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)

	backupCreateCmd.Flags().StringVar(&backupName, "name", "", "Snapshot name (default adpulse-<timestamp>)")
}

func runBackupCreate(cmd *cobra.Command, args []string, app *AppContext) error {
	ctx := cmd.Context()
	store, err := storage.NewBackupStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}

	now := time.Now().UTC()
	name := backupName
	if name == "" {
		name = "adpulse-" + now.Format("20060102-150405")
	}
	if exists, err := store.Exists(ctx, name); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("backup %q already exists", name)
	}

	snap, err := backup.Collect(ctx, app.Repos, now)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(backup.Encode(pw, snap))
	}()
	path, err := store.Store(ctx, name, pr)
	_ = pr.Close()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", path)
	counts := snap.Counts()
	t := newTable(out, "Records", "Count")
	for _, k := range []string{"campaigns", "metrics", "tests", "learnings", "failures", "assets"} {
		t.AppendRow([]any{k, counts[k]})
	}
	t.Render()
	return nil
}

func runBackupList(cmd *cobra.Command, args []string) error {
	store, err := storage.NewBackupStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}
	names, err := store.List(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintln(out, "No backups found")
		return nil
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

func runBackupRestore(cmd *cobra.Command, args []string, app *AppContext) error {
	ctx := cmd.Context()
	store, err := storage.NewBackupStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}

	rc, err := store.Open(ctx, args[0])
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	snap, err := backup.Decode(rc)
	if err != nil {
		return err
	}
	if err := backup.Restore(ctx, app.Repos, snap); err != nil {
		return err
	}

	counts := snap.Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "Restored %s: %d campaigns, %d metric rows, %d tests\n",
		args[0], counts["campaigns"], counts["metrics"], counts["tests"])
	if app.Demo {
		fmt.Fprintln(cmd.OutOrStdout(), "Note: demo mode keeps data in memory only")
	}
	return nil
}

func runBackupDelete(cmd *cobra.Command, args []string) error {
	store, err := storage.NewBackupStorage()
	if err != nil {
		return fmt.Errorf("failed to initialize backup storage: %w", err)
	}
	if err := store.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
	return nil
}
