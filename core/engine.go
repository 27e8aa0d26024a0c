package core

import "fmt"

// Engine identifies a hardware engine reachable through a channel.
type Engine int32

const (
	// EngineHost is the host interface itself. It is used internally for
	// semaphore gathers and cannot be the target of a user channel.
	EngineHost Engine = iota
	// EngineCopy is the asynchronous copy engine
	EngineCopy
	// EngineNvdec is the video decoder
	EngineNvdec
	// EngineNvenc is the video encoder
	EngineNvenc
	// EngineNvjpg is the JPEG codec engine
	EngineNvjpg
	// EngineOfa is the optical flow accelerator
	EngineOfa
	// EngineVic is the video image compositor
	EngineVic
)

var engineNames = make(map[Engine]string)

func init() {
	engineNames[EngineHost] = "Host"
	engineNames[EngineCopy] = "Copy"
	engineNames[EngineNvdec] = "Nvdec"
	engineNames[EngineNvenc] = "Nvenc"
	engineNames[EngineNvjpg] = "Nvjpg"
	engineNames[EngineOfa] = "Ofa"
	engineNames[EngineVic] = "Vic"
}

func (e Engine) String() string {
	if name, ok := engineNames[e]; ok {
		return name
	}
	return fmt.Sprintf("Engine(%d)", int32(e))
}

// Multimedia reports whether the engine is one of the falcon-based video
// engines, as opposed to the copy engine or the host interface.
func (e Engine) Multimedia() bool {
	switch e {
	case EngineNvdec, EngineNvenc, EngineNvjpg, EngineOfa, EngineVic:
		return true
	}
	return false
}
