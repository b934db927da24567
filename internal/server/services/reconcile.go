package services

import (
	"context"
	"fmt"
)

// ReconcileReport summarises one pass over the upload directory.
type ReconcileReport struct {
	DryRun bool
	// Scanned is the number of regular files found on disk.
	Scanned int
	// Removed lists unreferenced files past the grace period. In a dry run
	// they are listed but kept.
	Removed []string
	// Young counts unreferenced files still inside the grace period.
	Young int
	// Missing lists file ids whose bytes are gone. They are reported only.
	Missing []int64
}

// Reconcile compares the upload directory with the stored metadata.
// Unreferenced files older than the grace period are removed; records
// without bytes are logged.
func (s *FileService) Reconcile(ctx context.Context, dryRun bool) (*ReconcileReport, error) {
	records, err := s.repomanager.Files(s.db).ListStoredNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing stored names: %w", err)
	}

	entries, err := s.disk.List()
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{DryRun: dryRun, Scanned: len(entries)}

	referenced := make(map[string]struct{}, len(records))
	for _, r := range records {
		referenced[r.StoredName] = struct{}{}
	}

	cutoff := s.now().Add(-s.reconcileGrace)
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, ok := referenced[e.Name]; ok {
			continue
		}
		if e.ModTime.After(cutoff) {
			report.Young++
			continue
		}

		report.Removed = append(report.Removed, e.Name)
		if dryRun {
			continue
		}

		path, err := s.disk.Path(e.Name)
		if err == nil {
			err = s.disk.Remove(path)
		}
		if err != nil {
			s.logger.Warn(ctx, "failed to remove orphan", "name", e.Name, "error", err)
		}
	}

	for _, r := range records {
		ok, err := s.disk.Exists(r.StoragePath)
		if err != nil {
			return report, fmt.Errorf("stat %s: %w", r.StoragePath, err)
		}
		if !ok {
			report.Missing = append(report.Missing, r.ID)
			s.logger.Warn(ctx, "file record without bytes", "file", r.ID, "path", r.StoragePath)
		}
	}

	s.logger.Info(ctx, "reconcile finished",
		"dry_run", dryRun, "scanned", report.Scanned, "removed", len(report.Removed),
		"young", report.Young, "missing", len(report.Missing))

	return report, nil
}
