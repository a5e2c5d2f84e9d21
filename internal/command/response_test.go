package command

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
)

func fillAll(ctx context.Context, r *Response) bool {
	r.Message = "msg"
	r.EmbedTitle = "title"
	r.EmbedDescription = "desc"
	r.EmbedFilePath = "/tmp/image.png"
	r.EmbedFileName = "image.png"
	r.EmbedColor = 0x162C73
	return true
}

func assertUnset(t *testing.T, r *Response) {
	t.Helper()

	if r.Message != "" || r.EmbedTitle != "" || r.EmbedDescription != "" ||
		r.EmbedFilePath != "" || r.EmbedFileName != "" || r.EmbedColor != 0 {
		t.Errorf("expected all fields unset, got %+v", r)
	}
}

func TestPrepareResponse_InactiveReturnsFalse(t *testing.T) {
	cmd := newStub("gnomeo", SlashCommand)
	var called atomic.Bool
	cmd.prepare = func(ctx context.Context, r *Response) bool {
		called.Store(true)
		return fillAll(ctx, r)
	}
	cmd.SetActive(false)

	resp := cmd.NewResponse(Invocation{Platform: PlatformDiscord, Type: SlashCommand, Name: "gnomeo"})

	if resp.PrepareResponse(context.Background()) {
		t.Error("expected false for inactive command")
	}
	if called.Load() {
		t.Error("expected prepare func not to run for inactive command")
	}
	assertUnset(t, resp)
}

func TestPrepareResponse_FalseLeavesFieldsUnset(t *testing.T) {
	resp := NewResponse(Invocation{Platform: PlatformDiscord}, nil, func(ctx context.Context, r *Response) bool {
		r.Message = "partial"
		r.EmbedTitle = "partial"
		return false
	})

	if resp.PrepareResponse(context.Background()) {
		t.Error("expected false")
	}
	assertUnset(t, resp)
}

func TestPrepareResponse_EmptyContentReturnsFalse(t *testing.T) {
	resp := NewResponse(Invocation{}, nil, func(ctx context.Context, r *Response) bool {
		r.EmbedColor = 0xFF0000
		return true
	})

	if resp.PrepareResponse(context.Background()) {
		t.Error("expected false for empty content")
	}
	assertUnset(t, resp)
}

func TestPrepareResponse_CommitsOnTrue(t *testing.T) {
	resp := NewResponse(Invocation{Platform: PlatformDiscord}, nil, fillAll)

	if !resp.PrepareResponse(context.Background()) {
		t.Fatal("expected true")
	}
	if resp.EmbedTitle != "title" || resp.EmbedFileName != "image.png" || resp.EmbedColor != 0x162C73 {
		t.Errorf("expected fields to be filled, got %+v", resp)
	}
	if resp.Platform != PlatformDiscord {
		t.Errorf("expected platform discord, got %v", resp.Platform)
	}
}

func TestPrepareResponse_RunsOnce(t *testing.T) {
	var calls atomic.Int32
	resp := NewResponse(Invocation{}, nil, func(ctx context.Context, r *Response) bool {
		calls.Add(1)
		r.Message = "once"
		return true
	})

	first := resp.PrepareResponse(context.Background())
	second := resp.PrepareResponse(context.Background())

	if !first || !second {
		t.Errorf("expected both calls to report true, got %v and %v", first, second)
	}
	if calls.Load() != 1 {
		t.Errorf("expected prepare to run once, got %d", calls.Load())
	}
}

func TestPrepareResponse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp := NewResponse(Invocation{}, nil, fillAll)
	if resp.PrepareResponse(ctx) {
		t.Error("expected false for cancelled context")
	}
	assertUnset(t, resp)
}

func TestPrepareResponse_CancelledDuringPrepare(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	resp := NewResponse(Invocation{}, nil, func(ctx context.Context, r *Response) bool {
		fillAll(ctx, r)
		cancel()
		return true
	})
	if resp.PrepareResponse(ctx) {
		t.Error("expected false when cancelled before commit")
	}
	assertUnset(t, resp)
}

func TestPrepareResponse_ConcurrentInvocationsAreIndependent(t *testing.T) {
	cmd := newStub("echo", TextCommand)
	cmd.prepare = func(ctx context.Context, r *Response) bool {
		r.Message = r.Invocation.ID
		return true
	}

	var wg sync.WaitGroup
	responses := make([]*Response, 50)
	for i := range responses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := cmd.NewResponse(Invocation{ID: string(rune('A' + i%26))})
			resp.PrepareResponse(context.Background())
			responses[i] = resp
		}()
	}
	wg.Wait()

	for i, resp := range responses {
		if want := string(rune('A' + i%26)); resp.Message != want {
			t.Errorf("response %d: expected %q, got %q", i, want, resp.Message)
		}
	}
}

func TestResponse_Payload(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		want Payload
	}{
		{"empty", &Response{}, nil},
		{"text", &Response{Message: "hi"}, Text{Message: "hi"}},
		{
			"embed",
			&Response{EmbedTitle: "t", EmbedDescription: "d", EmbedColor: 1},
			Embed{Title: "t", Description: "d", Color: 1},
		},
		{
			"embed without file path",
			&Response{EmbedTitle: "t", EmbedFileName: "a.png"},
			Embed{Title: "t"},
		},
		{
			"embed with attachment",
			&Response{EmbedTitle: "t", EmbedFilePath: "/x/a.png", EmbedFileName: "a.png"},
			EmbedWithAttachment{Embed: Embed{Title: "t"}, FilePath: "/x/a.png", FileName: "a.png"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.resp.Payload()
			if got != tt.want {
				t.Errorf("expected %#v, got %#v", tt.want, got)
			}
		})
	}
}

func TestEmbedWithAttachment_AttachmentURL(t *testing.T) {
	p := EmbedWithAttachment{FileName: "gnomeo1.png"}
	if got := p.AttachmentURL(); got != "attachment://gnomeo1.png" {
		t.Errorf("expected %q, got %q", "attachment://gnomeo1.png", got)
	}
}

func TestNewRand_IsDeterministic(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for range 20 {
		if a.IntN(1000) != b.IntN(1000) {
			t.Fatal("expected identical sequences for identical seeds")
		}
	}
}
