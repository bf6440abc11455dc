package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/scoutops/mbc-pipeline/internal/logger"
)

const folderMimeType = "application/vnd.google-apps.folder"

// maxUploadRetries bounds the exponential backoff per file.
const maxUploadRetries = 4

// DriveUploader uploads report files to a Google Drive folder using a
// service account
type DriveUploader struct {
	service   *gdrive.Service
	folderID  string
	subfolder string
}

// NewDriveUploader creates a Drive uploader from a service account
// credentials file. The drive.file scope limits access to files this tool
// created. An optional subfolder keeps report files grouped under the shared
// folder.
func NewDriveUploader(ctx context.Context, credentialsFile, folderID, subfolder string) (*DriveUploader, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("drive credentials file is required")
	}
	if _, err := os.Stat(credentialsFile); err != nil {
		return nil, fmt.Errorf("drive credentials file: %w", err)
	}
	if folderID == "" {
		return nil, fmt.Errorf("drive folder ID is required")
	}

	service, err := gdrive.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gdrive.DriveFileScope))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}

	return &DriveUploader{
		service:   service,
		folderID:  folderID,
		subfolder: subfolder,
	}, nil
}

// Upload pushes every file in the plan, replacing same-name remote files so
// links to them keep working.
func (u *DriveUploader) Upload(ctx context.Context, plan *Plan) error {
	parent := u.folderID
	if u.subfolder != "" {
		id, err := u.ensureFolder(ctx, u.subfolder)
		if err != nil {
			return fmt.Errorf("ensuring drive folder %q: %w", u.subfolder, err)
		}
		parent = id
	}

	for _, f := range plan.Files {
		if err := u.uploadFile(ctx, parent, filepath.Join(plan.Dir, f.LocalName), f.RemoteName); err != nil {
			return fmt.Errorf("uploading %s: %w", f.RemoteName, err)
		}
	}

	logger.Info("drive sync complete", logger.Fields{
		"files":  len(plan.Files),
		"folder": u.folderID,
	})
	return nil
}

// ensureFolder returns the ID of the named subfolder, creating it when
// missing.
func (u *DriveUploader) ensureFolder(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), u.folderID, folderMimeType)
	list, err := u.service.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	folder, err := u.service.Files.Create(&gdrive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{u.folderID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", err
	}

	logger.Info("created drive folder", logger.Fields{"name": name, "id": folder.Id})
	return folder.Id, nil
}

// uploadFile creates or updates one remote file, retrying transient Drive
// errors with exponential backoff.
func (u *DriveUploader) uploadFile(ctx context.Context, parent, localPath, remoteName string) error {
	existingID, err := u.findFile(ctx, parent, remoteName)
	if err != nil {
		return err
	}

	operation := func() error {
		f, err := os.Open(localPath)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer f.Close()

		if existingID != "" {
			_, err = u.service.Files.Update(existingID, &gdrive.File{}).Media(f).Context(ctx).Do()
		} else {
			_, err = u.service.Files.Create(&gdrive.File{
				Name:    remoteName,
				Parents: []string{parent},
			}).Media(f).Context(ctx).Do()
		}
		return classifyDriveErr(err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUploadRetries), ctx)
	notify := func(err error, wait time.Duration) {
		logger.Warn("retrying drive upload", logger.Fields{
			"file": remoteName,
			"wait": wait.String(),
		})
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return err
	}

	action := "uploaded"
	if existingID != "" {
		action = "replaced"
	}
	logger.Info(action+" report file", logger.Fields{"file": remoteName})
	return nil
}

// findFile returns the ID of a same-name file under parent, or "" when none
// exists.
func (u *DriveUploader) findFile(ctx context.Context, parent, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), parent)
	list, err := u.service.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("searching for %s: %w", name, err)
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// classifyDriveErr marks client errors permanent so backoff stops early;
// rate limits and server errors stay retryable.
func classifyDriveErr(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError {
			return err
		}
		return backoff.Permanent(err)
	}
	// Transport-level failures are worth another attempt.
	return err
}

// escapeQuery escapes single quotes in Drive query string values
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, `'`, `\'`)
}
