package linguist

import (
	"io"
	"os"
	"runtime"
)

// catalogData is the content of a catalog file. It is memory mapped when
// the platform and the file allow it, in which case release unmaps it. The
// parsers copy every string they keep, so data is only needed while parsing.
type catalogData struct {
	data    []byte
	release func() error
}

func (d *catalogData) mapped() bool {
	return d.release != nil
}

// Close releases the mapping, if any. data must not be used afterwards.
func (d *catalogData) Close() error {
	if d.release == nil {
		return nil
	}
	runtime.SetFinalizer(d, nil)
	release := d.release
	d.data, d.release = nil, nil
	return release()
}

// readCatalogData maps f, falling back to reading it whole.
func readCatalogData(f *os.File) (*catalogData, error) {
	data, release, err := mapFile(f)
	if err != nil {
		Logger.Debug().Err(err).Str("file", f.Name()).Msg("Cannot map catalog, reading it instead")
		data, err = io.ReadAll(f)
		if err != nil {
			return nil, err
		}
		return &catalogData{data: data}, nil
	}
	d := &catalogData{data: data, release: release}
	if release != nil {
		runtime.SetFinalizer(d, (*catalogData).Close)
	}
	return d, nil
}
