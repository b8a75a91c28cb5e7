// Package archive downloads a remote log archive and extracts it to disk.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gh-triage-mcp/src/logger"
)

// DefaultFilename is the name of the temporary archive inside the output directory.
const DefaultFilename = "logs.zip"

var ErrInvalidURL = errors.New("invalid archive URL")

// Result describes a completed download.
type Result struct {
	Success            bool     `json:"success"`
	Message            string   `json:"message"`
	ExtractedDirectory string   `json:"extractedDirectory"`
	Files              []string `json:"files"`
}

// Fetcher downloads archives and hands them to an Extractor.
type Fetcher struct {
	httpClient *http.Client
	extractor  Extractor
	log        logger.Logger
}

// NewFetcher creates a fetcher. Nil arguments fall back to a 5 minute HTTP
// client, the system unzip, and a silent logger.
func NewFetcher(httpClient *http.Client, extractor Extractor, log logger.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if extractor == nil {
		extractor = &UnzipExtractor{}
	}
	if log == nil {
		log = logger.NewSilentLogger()
	}
	return &Fetcher{httpClient: httpClient, extractor: extractor, log: log}
}

// Download fetches rawURL into outputDir/filename, extracts it into outputDir
// and removes the archive. A non-2xx response is reported as an unsuccessful
// Result; transport, file system and extraction failures are errors.
// Once the archive file has been created it never outlives this call.
func (f *Fetcher) Download(ctx context.Context, rawURL, outputDir, filename string) (*Result, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}
	filename = filepath.Base(filename)
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		filename = DefaultFilename
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &Result{
			Message:            fmt.Sprintf("Failed to download file: %s - %s", resp.Status, string(body)),
			ExtractedDirectory: outputDir,
			Files:              []string{},
		}, nil
	}

	archivePath := filepath.Join(outputDir, filename)
	if err := writeFile(archivePath, resp.Body); err != nil {
		f.removeArchive(archivePath)
		return nil, err
	}
	f.log.Debug("downloaded archive to %s", archivePath)

	extractErr := f.extractor.Extract(ctx, archivePath, outputDir)
	f.removeArchive(archivePath)
	if extractErr != nil {
		f.log.Error("extracting %s failed: %v", archivePath, extractErr)
		return nil, extractErr
	}

	files, err := listFiles(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted files: %w", err)
	}
	f.log.Info("extracted %d files into %s", len(files), outputDir)

	return &Result{
		Success:            true,
		Message:            fmt.Sprintf("Downloaded and extracted %d files", len(files)),
		ExtractedDirectory: outputDir,
		Files:              files,
	}, nil
}

func validateURL(rawURL string) error {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	return nil
}

func (f *Fetcher) removeArchive(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		f.log.Error("failed to remove archive %s: %v", path, err)
	}
}

// listFiles returns the regular files under dir as sorted, slash-separated
// relative paths.
func listFiles(dir string) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}
