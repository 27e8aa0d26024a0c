package mmsub

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/nvwrapper/mmsub/core"
)

var engineList = []core.Engine{
	core.EngineCopy,
	core.EngineNvdec,
	core.EngineNvenc,
	core.EngineNvjpg,
	core.EngineOfa,
	core.EngineVic,
}

// BuildInfoJSON serializes the probed device capabilities.
func (d *Device) BuildInfoJSON() ([]byte, error) {
	info := d.Info()

	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("platform").String(info.Platform.String())
	obj.Name("nvdec_version").String(info.NvdecVersion.String())
	obj.Name("nvjpg_version").String(info.NvjpgVersion.String())
	obj.Name("page_size").Int(info.PageSize)

	engines := obj.Name("engines").Array()
	for _, e := range engineList {
		if info.HasEngine(e) {
			engines.String(e.String())
		}
	}
	engines.End()

	unsupported := obj.Name("unsupported_codecs").Array()
	for _, u := range []struct {
		name string
		set  bool
	}{
		{"vp8", info.VP8Unsupported},
		{"vp9", info.VP9Unsupported},
		{"vp9_high_depth", info.VP9HighDepthUnsupported},
		{"h264", info.H264Unsupported},
		{"hevc", info.HEVCUnsupported},
		{"av1", info.AV1Unsupported},
	} {
		if u.set {
			unsupported.String(u.name)
		}
	}
	unsupported.End()

	obj.End()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
