package imdb

import (
	"bufio"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	minStartYear = 1910

	// checkEvery is how many rows are parsed between cancellation checks.
	checkEvery = 10000
)

// download fetches rawURL into path. A HEAD request confirms the source first;
// the body is written to a temporary file that is renamed into place only once
// complete.
func download(ctx context.Context, client *http.Client, rawURL, path string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: imdbDataUrl is not an http(s) URL", ErrDataSource)
	}

	if err := request(ctx, client, http.MethodHead, rawURL, nil); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), DataFileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary dataset file: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if err := request(ctx, client, http.MethodGet, rawURL, tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}
	return nil
}

// request issues a request and copies a successful body into dst when dst is not nil.
func request(ctx context.Context, client *http.Client, method, rawURL string, dst io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataSource, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDataSource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s returned %s", ErrDataSource, method, resp.Status)
	}

	if dst == nil {
		return nil
	}
	if _, err := io.Copy(dst, resp.Body); err != nil {
		return fmt.Errorf("%w: %w", ErrDataSource, err)
	}
	return nil
}

// loadTitles returns the tconst of every non-adult movie or TV series released
// in or after 1910.
func loadTitles(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress dataset: %w", err)
	}
	defer gz.Close()

	return parseTitles(ctx, gz)
}

// parseTitles reads a title.basics TSV stream. Columns are located by header
// name. Fields are not quoted, so lines are split on tabs directly.
func parseTitles(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read dataset header: %w", err)
		}
		return nil, errors.New("dataset is empty")
	}

	cols, err := columns(scanner.Text())
	if err != nil {
		return nil, err
	}

	var titles []string
	for n := 0; scanner.Scan(); n++ {
		if n%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) <= cols.max {
			continue
		}
		if keep(fields[cols.titleType], fields[cols.isAdult], fields[cols.startYear]) {
			titles = append(titles, fields[cols.tconst])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	return titles, nil
}

type columnIndex struct {
	tconst, titleType, isAdult, startYear int
	max                                   int
}

func columns(header string) (columnIndex, error) {
	idx := columnIndex{tconst: -1, titleType: -1, isAdult: -1, startYear: -1}
	for i, name := range strings.Split(header, "\t") {
		switch name {
		case "tconst":
			idx.tconst = i
		case "titleType":
			idx.titleType = i
		case "isAdult":
			idx.isAdult = i
		case "startYear":
			idx.startYear = i
		}
	}

	for _, i := range []int{idx.tconst, idx.titleType, idx.isAdult, idx.startYear} {
		if i < 0 {
			return idx, fmt.Errorf("dataset header is missing a required column: %q", header)
		}
		idx.max = max(idx.max, i)
	}
	return idx, nil
}

// keep reports whether a row qualifies. A missing start year ("\N") never does.
func keep(titleType, isAdult, startYear string) bool {
	if titleType != "movie" && titleType != "tvSeries" {
		return false
	}
	if isAdult == "1" {
		return false
	}
	year, err := strconv.Atoi(startYear)
	return err == nil && year >= minStartYear
}
