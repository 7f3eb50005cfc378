package cli

import (
	"fmt"
	"path/filepath"

	"github.com/julianstephens/dailyboost/internal/constants"
	"github.com/julianstephens/dailyboost/internal/logger"
)

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	mgr, err := app.Backups()
	if err != nil {
		return err
	}
	backupPath, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	mgr, err := app.Backups()
	if err != nil {
		return err
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.Dir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	tbl := newTable()
	for _, b := range backups {
		tbl.AddRow(b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0))
	}
	ctx.println(tbl)
	ctx.printf("\nBackup directory: %s\n", mgr.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Yes        bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	app, err := ctx.App()
	if err != nil {
		return err
	}
	mgr, err := app.Backups()
	if err != nil {
		return err
	}
	backupPath, err := mgr.Find(c.BackupFile)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.println(warnStyle.Render("This will replace your current data with the backup."))
		ctx.println("A backup of your current data will be created before restoring.")
		ok, err := promptConfirm(fmt.Sprintf("Restore from %s?", filepath.Base(backupPath)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	// The store must be closed before its file is replaced.
	if err := ctx.Close(); err != nil {
		logger.Warn("Failed to close database before restore", "error", err)
	}

	safety, err := mgr.RestoreBackup(backupPath)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if safety != "" {
		ctx.printf("Previous data saved as: %s\n", filepath.Base(safety))
	}
	ctx.println("✓ Data restored successfully!")
	ctx.println("Restart any running 'dailyboost serve' process to use the restored data.")
	return nil
}
