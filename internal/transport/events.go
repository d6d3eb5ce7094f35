package transport

import (
	"context"

	wailsruntime "github.com/wailsapp/wails/v2/pkg/runtime"
)

// WailsEmitter forwards events to the frontend through the Wails runtime
type WailsEmitter struct {
	ctx context.Context
}

func NewWailsEmitter(ctx context.Context) *WailsEmitter {
	return &WailsEmitter{ctx: ctx}
}

func (e *WailsEmitter) Emit(event string, data any) {
	wailsruntime.EventsEmit(e.ctx, event, data)
}
