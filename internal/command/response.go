package command

import (
	"context"
	"sync"
)

// PrepareFunc fills r from the command's current data. It reports false when
// there is nothing to send. It only ever sees a scratch Response; nothing it
// writes is visible unless it returns true.
type PrepareFunc func(ctx context.Context, r *Response) bool

// Response is the per-invocation description of a reply. It is written by
// PrepareResponse and read by the platform adapter afterwards.
type Response struct {
	Platform   Platform
	Invocation Invocation

	Message          string
	EmbedTitle       string
	EmbedDescription string
	EmbedFilePath    string
	EmbedFileName    string
	EmbedColor       int

	active  func() bool
	prepare PrepareFunc

	once     sync.Once
	prepared bool
}

// NewResponse creates a Response for inv. A nil active func means always active.
func NewResponse(inv Invocation, active func() bool, prepare PrepareFunc) *Response {
	return &Response{
		Platform:   inv.Platform,
		Invocation: inv,
		active:     active,
		prepare:    prepare,
	}
}

// PrepareResponse fills the content fields and reports whether there is anything
// to send. It runs at most once; later calls return the first result. When it
// returns false the content fields are left unset.
func (r *Response) PrepareResponse(ctx context.Context) bool {
	r.once.Do(func() {
		r.prepared = r.run(ctx)
	})
	return r.prepared
}

func (r *Response) run(ctx context.Context) bool {
	if r.active != nil && !r.active() {
		return false
	}
	if r.prepare == nil || ctx.Err() != nil {
		return false
	}

	scratch := &Response{Platform: r.Platform, Invocation: r.Invocation}
	if !r.prepare(ctx, scratch) || scratch.empty() {
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	r.Message = scratch.Message
	r.EmbedTitle = scratch.EmbedTitle
	r.EmbedDescription = scratch.EmbedDescription
	r.EmbedFilePath = scratch.EmbedFilePath
	r.EmbedFileName = scratch.EmbedFileName
	r.EmbedColor = scratch.EmbedColor
	return true
}

func (r *Response) empty() bool {
	return r.Message == "" && r.EmbedTitle == "" && r.EmbedDescription == "" && !r.hasAttachment()
}

func (r *Response) hasAttachment() bool {
	return r.EmbedFileName != "" && r.EmbedFilePath != ""
}

// Payload returns the prepared content as a closed variant, or nil when there is none.
func (r *Response) Payload() Payload {
	if r.empty() {
		return nil
	}

	if r.EmbedTitle == "" && r.EmbedDescription == "" && !r.hasAttachment() {
		return Text{Message: r.Message}
	}

	embed := Embed{
		Message:     r.Message,
		Title:       r.EmbedTitle,
		Description: r.EmbedDescription,
		Color:       r.EmbedColor,
	}
	if r.hasAttachment() {
		return EmbedWithAttachment{
			Embed:    embed,
			FilePath: r.EmbedFilePath,
			FileName: r.EmbedFileName,
		}
	}
	return embed
}

// Payload is the rendered shape of a Response: Text, Embed or EmbedWithAttachment.
type Payload interface {
	payload()
}

// Text is a plain message.
type Text struct {
	Message string
}

// Embed is a rich message with an optional plain message alongside.
type Embed struct {
	Message     string
	Title       string
	Description string
	Color       int
}

// EmbedWithAttachment is an embed that references an attached file.
type EmbedWithAttachment struct {
	Embed
	FilePath string
	FileName string
}

// AttachmentURL returns the placeholder URL that points the embed at the attached file.
func (e EmbedWithAttachment) AttachmentURL() string {
	return "attachment://" + e.FileName
}

func (Text) payload()                {}
func (Embed) payload()               {}
func (EmbedWithAttachment) payload() {}
