package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-photo-sync/models"
)

var (
	errUploadFailed  = errors.New("some files were not stored")
	errStatusTarget  = errors.New("either --sync-id or --device is required")
	errPushFailed    = errors.New("push finished with failed items")
	errNothingToPush = errors.New("no push completed before shutdown")
)

var _ Client = (*App)(nil)

func parseSince(value string) (*time.Time, error) {
	since, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return nil, fmt.Errorf("--since must be RFC 3339: %w", err)
	}
	return &since, nil
}

func (a *App) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print client build info and the server version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Build version: %s\n", orNA(a.buildInfo.BuildVersion()))
			fmt.Fprintf(out, "Build date: %s\n", orNA(a.buildInfo.BuildDate()))
			fmt.Fprintf(out, "Build commit: %s\n", orNA(a.buildInfo.BuildCommit()))

			version, err := a.adapter.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Server version: %s\n", version)
			return nil
		},
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (a *App) openCommand() *cobra.Command {
	var req models.OpenSessionRequest

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a full sync session, cancelling the device's previous one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := a.adapter.OpenSession(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&req.DeviceID, "device", "", "device id")
	cmd.Flags().StringVar(&req.UserName, "user", "", "user name")
	return cmd
}

func (a *App) incrementalCommand() *cobra.Command {
	var (
		req   models.OpenIncrementalRequest
		since string
	)

	cmd := &cobra.Command{
		Use:   "incremental",
		Short: "Open an incremental session and list records changed since a watermark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lastSync, err := parseSince(since)
			if err != nil {
				return err
			}
			req.LastSyncTime = lastSync

			resp, err := a.adapter.OpenIncremental(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&req.DeviceID, "device", "", "device id")
	cmd.Flags().StringVar(&req.UserName, "user", "", "user name")
	cmd.Flags().StringVar(&since, "since", "", "watermark of the previous session (RFC 3339)")
	_ = cmd.MarkFlagRequired("since")
	return cmd
}

func (a *App) reconcileCommand() *cobra.Command {
	var (
		req  models.ReconcileRequest
		file string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Push metadata records from a JSON file, or from a library scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			photos, err := a.readPhotos(cmd, file)
			if err != nil {
				return err
			}
			req.Photos = photos

			result, err := a.adapter.Reconcile(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, result)
		},
	}
	cmd.Flags().StringVar(&req.SyncID, "sync-id", "", "session id")
	cmd.Flags().BoolVar(&req.IsIncremental, "incremental", false, "update existing records instead of only adding")
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON array of photo records; scans --library when empty")
	_ = cmd.MarkFlagRequired("sync-id")
	return cmd
}

func (a *App) readPhotos(cmd *cobra.Command, file string) ([]models.Photo, error) {
	if file == "" {
		return a.services.LibraryService.Scan(cmd.Context())
	}

	data, err := afero.ReadFile(a.fs, file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}

	var photos []models.Photo
	if err = json.Unmarshal(data, &photos); err != nil {
		return nil, fmt.Errorf("decode %s: %w", file, err)
	}
	return photos, nil
}

func (a *App) uploadCommand() *cobra.Command {
	var syncID string

	cmd := &cobra.Command{
		Use:   "upload PATH...",
		Short: "Upload image files from the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			results := make([]models.UploadResult, 0, len(paths))
			failed := false

			for _, p := range paths {
				payload, err := a.services.LibraryService.ReadFile(cmd.Context(), p)
				if err != nil {
					return err
				}

				result, err := a.adapter.Upload(cmd.Context(), models.UploadRequest{SyncID: syncID, FilePath: p, Payload: payload})
				if err != nil {
					return err
				}
				failed = failed || !result.Success
				results = append(results, result)
			}

			if err := a.print(cmd, results); err != nil {
				return err
			}
			if failed {
				return errUploadFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&syncID, "sync-id", "", "session id")
	_ = cmd.MarkFlagRequired("sync-id")
	return cmd
}

func (a *App) verifyCommand() *cobra.Command {
	var syncID string

	cmd := &cobra.Command{
		Use:   "verify ID...",
		Short: "Check that records and their files exist on the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, ids []string) error {
			resp, err := a.adapter.Verify(cmd.Context(), models.VerifyRequest{SyncID: syncID, PhotoIDs: ids})
			if err != nil {
				return err
			}
			return a.print(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&syncID, "sync-id", "", "session id")
	_ = cmd.MarkFlagRequired("sync-id")
	return cmd
}

func (a *App) statusCommand() *cobra.Command {
	var req models.StatusRequest

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a session and its operation log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.SyncID == "" && req.DeviceID == "" {
				return errStatusTarget
			}

			resp, err := a.adapter.Status(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, resp)
		},
	}
	cmd.Flags().StringVar(&req.SyncID, "sync-id", "", "session id")
	cmd.Flags().StringVar(&req.DeviceID, "device", "", "latest session of this device")
	return cmd
}

func (a *App) completeCommand() *cobra.Command {
	var (
		req    models.CompleteSessionRequest
		status string
	)

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Finish a session as completed or failed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.Status = models.SessionStatus(status)

			session, err := a.adapter.Complete(cmd.Context(), req)
			if err != nil {
				return err
			}
			return a.print(cmd, session)
		},
	}
	cmd.Flags().StringVar(&req.SyncID, "sync-id", "", "session id")
	cmd.Flags().StringVar(&status, "status", string(models.SessionCompleted), "completed or failed")
	cmd.Flags().StringVar(&req.Error, "error", "", "failure reason")
	_ = cmd.MarkFlagRequired("sync-id")
	return cmd
}

func (a *App) pushCommand() *cobra.Command {
	var (
		opts  models.PushOptions
		since string
		watch time.Duration
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Scan the library and run a whole sync session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if since != "" {
				watermark, err := parseSince(since)
				if err != nil {
					return err
				}
				opts.Since = watermark
			}

			if watch > 0 {
				return a.watch(cmd, opts, watch)
			}

			report, err := a.services.SyncService.Push(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if err = a.print(cmd, report); err != nil {
				return err
			}
			if report.Failed() {
				return errPushFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.DeviceID, "device", "", "device id")
	cmd.Flags().StringVar(&opts.UserName, "user", "", "user name")
	cmd.Flags().StringVar(&since, "since", "", "push incrementally from this watermark (RFC 3339)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "records per metadata request")
	cmd.Flags().IntVar(&opts.UploadConcurrency, "upload-concurrency", 0, "parallel file uploads")
	cmd.Flags().DurationVar(&watch, "watch", 0, "keep pushing on this interval until interrupted")
	return cmd
}

// watch pushes every interval until the command context is cancelled and
// prints the last successful report.
func (a *App) watch(cmd *cobra.Command, opts models.PushOptions, interval time.Duration) error {
	a.services.SyncJob.Start(cmd.Context(), opts, interval)
	<-cmd.Context().Done()
	a.services.SyncJob.Stop()

	report, ok := a.services.SyncJob.LastReport()
	if !ok {
		return errNothingToPush
	}
	return a.print(cmd, report)
}
