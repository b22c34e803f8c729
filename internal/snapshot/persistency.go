// Package snapshot persists the document set of a run so a later run can restore it.
package snapshot

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

const workInProgressFileSuffix = ".wip"
const contentOpener = "SNAPSHOT>>>"
const contentTerminator = "<<<SNAPSHOT"
const semanticVersion = "1.0.0"
const semVerPattern = `^(?P<major>0|[1-9]\d*)\.(?P<minor>0|[1-9]\d*)\.(?P<patch>0|[1-9]\d*)(?:-(?P<prerelease>(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*)(?:\.(?:0|[1-9]\d*|\d*[a-zA-Z-][0-9a-zA-Z-]*))*))?(?:\+(?P<buildmetadata>[0-9a-zA-Z-]+(?:\.[0-9a-zA-Z-]+)*))?$`

var semanticVersionRegex = regexp.MustCompile(semVerPattern)
var semanticVersionMajorSubmatchIndex = semanticVersionRegex.SubexpIndex("major")

var ErrNoSnapshot = errors.New("no snapshot found")

// Snapshot is the persisted outcome of a discovery run.
type Snapshot struct {
	SourceDir string
	Taken     int64 //unix timestamp
	Docnames  []string
}

// New prepares a snapshot of the given docnames, taken now.
func New(sourceDir string, docnames []string) Snapshot {
	sorted := append([]string(nil), docnames...)
	sort.Strings(sorted)
	return Snapshot{SourceDir: sourceDir, Taken: time.Now().Unix(), Docnames: sorted}
}

// Save writes the snapshot to the given path via a temporary working copy which replaces the target when complete.
func (s Snapshot) Save(path string, overwrite bool) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("saving snapshot failed: %w", err)
		}
	}()

	if !overwrite {
		if _, statErr := os.Lstat(path); statErr == nil {
			return fmt.Errorf("path of snapshot file exists already (%s)", path)
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return statErr
		}
	}

	tempPath := path + workInProgressFileSuffix
	file, err := os.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	writeErr := s.write(file)
	closeErr := file.Close()
	if err = errors.Join(writeErr, closeErr); err != nil {
		os.Remove(tempPath)
		return err
	}

	if err = os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing snapshot file (%s) with temporary working copy (%s) failed: %w", path, tempPath, err)
	}
	return nil
}

func (s Snapshot) write(target io.Writer) error {
	compressor, _ := gzip.NewWriterLevel(target, gzip.BestSpeed)

	if _, err := fmt.Fprintf(compressor, "%s\n%s\n", semanticVersion, contentOpener); err != nil {
		return err
	}

	encoder := json.NewEncoder(compressor)
	encoder.SetIndent("", "\t")
	if err := encoder.Encode(s); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(compressor, contentTerminator); err != nil {
		return err
	}
	return compressor.Close()
}

// Load reads a snapshot written by Save. A missing file yields ErrNoSnapshot.
func Load(path string) (*Snapshot, error) {
	leftoverWorkInProgressFile := path + workInProgressFileSuffix
	if _, err := os.Stat(leftoverWorkInProgressFile); !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("old %s-file exists (%s), manual intervention necessary", workInProgressFileSuffix, leftoverWorkInProgressFile)
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	s, err := read(file)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s unusable: %w", path, err)
	}
	return s, nil
}

func read(source io.Reader) (*Snapshot, error) {
	decompressor, err := gzip.NewReader(source)
	if err != nil {
		return nil, err
	}
	defer decompressor.Close()
	buffered := bufio.NewReader(decompressor)

	textUntilNewline := func() (string, error) {
		line, err := buffered.ReadString('\n')
		return strings.TrimSuffix(line, "\n"), err
	}

	fileVersion, err := textUntilNewline()
	if err != nil {
		return nil, err
	}
	fileVersionMatch := semanticVersionRegex.FindStringSubmatch(fileVersion)
	if fileVersionMatch == nil {
		return nil, errors.New("corrupted, version not found")
	}
	appVersionMatch := semanticVersionRegex.FindStringSubmatch(semanticVersion)
	if fileVersionMatch[semanticVersionMajorSubmatchIndex] != appVersionMatch[semanticVersionMajorSubmatchIndex] {
		return nil, fmt.Errorf("incompatible snapshot version: %s", fileVersion)
	}

	if opener, err := textUntilNewline(); err != nil {
		return nil, err
	} else if opener != contentOpener {
		return nil, fmt.Errorf("unexpected content start: %q", opener)
	}

	decoder := json.NewDecoder(buffered)
	decoder.DisallowUnknownFields()
	var s Snapshot
	if err := decoder.Decode(&s); err != nil {
		return nil, err
	}

	var termination strings.Builder
	io.Copy(&termination, decoder.Buffered())
	io.Copy(&termination, buffered)
	if !strings.HasPrefix(termination.String(), "\n"+contentTerminator) { //newline courtesy of JSON encoder
		return nil, fmt.Errorf("unexpected termination: %q", termination.String())
	}
	return &s, nil
}
