package gallery

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sglre6355/multibot/internal/command"
)

func newTestCommand(t *testing.T, opts Options) *Command {
	t.Helper()

	if opts.Bot == "" {
		opts.Bot = "TestBot"
	}
	if opts.Name == "" {
		opts.Name = "gallery"
	}
	if opts.ConfigRoot == "" {
		opts.ConfigRoot = filepath.Join(t.TempDir(), "Config")
	}
	if opts.ResourcesDir == "" {
		opts.ResourcesDir = filepath.Join(t.TempDir(), "Resources")
	}
	if opts.Debounce == 0 {
		opts.Debounce = 10 * time.Millisecond
	}

	c, err := New(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = c.Shutdown() })
	return c
}

func writeConfig(t *testing.T, path string, cfg Config) {
	t.Helper()

	data, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func invoke(c *Command) *command.Response {
	resp := c.NewResponse(command.Invocation{
		Platform: command.PlatformDiscord,
		Type:     command.SlashCommand,
		Name:     c.Name(),
	})
	resp.PrepareResponse(context.Background())
	return resp
}

func TestGallery_DistributesUniformly(t *testing.T) {
	c := newTestCommand(t, Options{
		Defaults: []Entry{{Title: "A"}, {Title: "B"}, {Title: "C"}},
		Rand:     command.NewRand(7),
	})

	counts := make(map[string]int)
	for range 1000 {
		resp := invoke(c)
		if resp.Payload() == nil {
			t.Fatal("expected a payload")
		}
		counts[resp.EmbedTitle]++
	}

	for _, title := range []string{"A", "B", "C"} {
		if counts[title] < 250 || counts[title] > 420 {
			t.Errorf("expected roughly a third for %s, got %d of 1000", title, counts[title])
		}
	}
}

func TestGallery_CreatesDefaultConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Config")
	defaults := []Entry{{Title: "Movie 1", Description: "A dark film.", ImageFileName: "image1.png"}}

	c := newTestCommand(t, Options{Name: "cinephile", ConfigRoot: root, Defaults: defaults})
	path := filepath.Join(root, "TestBot", "cinephile.json")
	if c.ConfigPath() != path {
		t.Errorf("expected config path %q, got %q", path, c.ConfigPath())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected default config to be written: %v", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}
	if cfg.Version != ConfigVersion || len(cfg.Entries) != 1 || cfg.Entries[0] != defaults[0] {
		t.Errorf("unexpected default config %+v", cfg)
	}
}

func TestGallery_RecreatesDeletedConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Config")
	first := newTestCommand(t, Options{ConfigRoot: root, Defaults: []Entry{{Title: "A"}}})
	path := first.ConfigPath()
	if err := first.Shutdown(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove config: %v", err)
	}

	newTestCommand(t, Options{ConfigRoot: root, Defaults: []Entry{{Title: "A"}}})
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default config to be recreated: %v", err)
	}
}

func TestGallery_EmptyListAfterReload(t *testing.T) {
	c := newTestCommand(t, Options{Defaults: []Entry{{Title: "A"}}})
	if !invoke(c).PrepareResponse(context.Background()) {
		t.Fatal("expected a response before reload")
	}

	writeConfig(t, c.ConfigPath(), Config{Version: ConfigVersion, Entries: []Entry{}})
	eventually(t, func() bool { return len(c.record.Current().Entries) == 0 })

	resp := invoke(c)
	if resp.PrepareResponse(context.Background()) {
		t.Error("expected no response for an empty entry list")
	}
	if resp.Payload() != nil {
		t.Errorf("expected no payload, got %#v", resp.Payload())
	}
}

func TestGallery_ReloadReplacesEntries(t *testing.T) {
	c := newTestCommand(t, Options{Defaults: []Entry{{Title: "Old"}}})

	writeConfig(t, c.ConfigPath(), Config{Version: ConfigVersion, Entries: []Entry{{Title: "New"}}})
	eventually(t, func() bool { return c.record.Current().Entries[0].Title == "New" })

	if got := invoke(c).EmbedTitle; got != "New" {
		t.Errorf("expected %q, got %q", "New", got)
	}
}

func TestGallery_InactiveCommand(t *testing.T) {
	c := newTestCommand(t, Options{Defaults: []Entry{{Title: "A"}}})
	c.SetActive(false)

	resp := invoke(c)
	if resp.PrepareResponse(context.Background()) {
		t.Error("expected no response from an inactive command")
	}
}

func TestGallery_ImageAttachment(t *testing.T) {
	resources := filepath.Join(t.TempDir(), "Resources")
	imageDir := filepath.Join(resources, "Images", "gnomeo")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatalf("failed to create image dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(imageDir, "gnomeo1.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}

	c := newTestCommand(t, Options{
		Name:         "gnomeo",
		ResourcesDir: resources,
		Color:        gnomeoColor,
		Defaults:     []Entry{{Title: "Gnomeo", Description: "Who's your gnomie?", ImageFileName: "gnomeo1.png"}},
	})

	payload, ok := invoke(c).Payload().(command.EmbedWithAttachment)
	if !ok {
		t.Fatalf("expected an embed with attachment, got %#v", invoke(c).Payload())
	}
	if payload.FileName != "gnomeo1.png" || payload.FilePath != filepath.Join(imageDir, "gnomeo1.png") {
		t.Errorf("unexpected attachment %+v", payload)
	}
	if payload.Color != gnomeoColor {
		t.Errorf("expected color %#x, got %#x", gnomeoColor, payload.Color)
	}
}

func TestGallery_MissingImageDropsAttachment(t *testing.T) {
	c := newTestCommand(t, Options{
		Defaults: []Entry{
			{Title: "Movie 1", ImageFileName: "image1.png"},
		},
	})

	payload, ok := invoke(c).Payload().(command.Embed)
	if !ok {
		t.Fatalf("expected a plain embed, got %#v", invoke(c).Payload())
	}
	if payload.Title != "Movie 1" {
		t.Errorf("expected title %q, got %q", "Movie 1", payload.Title)
	}
}

func TestGallery_RejectsImageOutsideDirectory(t *testing.T) {
	resources := filepath.Join(t.TempDir(), "Resources")
	if err := os.MkdirAll(resources, 0o755); err != nil {
		t.Fatalf("failed to create resources dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(resources, "secret.png"), []byte("png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	c := newTestCommand(t, Options{
		ResourcesDir: resources,
		Defaults:     []Entry{{Title: "A", ImageFileName: "../../secret.png"}},
	})

	if _, ok := invoke(c).Payload().(command.EmbedWithAttachment); ok {
		t.Error("expected attachment outside the image directory to be dropped")
	}
}

func TestPresets(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Config")
	opts := Options{Bot: "TCHJR", ConfigRoot: root, Debounce: 10 * time.Millisecond}

	cinephile, err := Cinephile(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cinephile.Shutdown()

	gnomeo, err := Gnomeo(opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer gnomeo.Shutdown()

	if cinephile.Name() != "cinephile" || len(cinephile.record.Current().Entries) != 3 {
		t.Errorf("unexpected cinephile preset: %s with %d entries",
			cinephile.Name(), len(cinephile.record.Current().Entries))
	}
	if gnomeo.Name() != "gnomeo" || len(gnomeo.record.Current().Entries) != 5 {
		t.Errorf("unexpected gnomeo preset: %s with %d entries",
			gnomeo.Name(), len(gnomeo.record.Current().Entries))
	}
	if !gnomeo.Types().Contains(command.SlashCommand | command.TextCommand) {
		t.Errorf("expected gnomeo to support slash and text, got %s", gnomeo.Types())
	}
	if gnomeo.color != gnomeoColor {
		t.Errorf("expected gnomeo color %#x, got %#x", gnomeoColor, gnomeo.color)
	}
}
