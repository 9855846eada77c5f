package commands

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/iov-one/treasury/errors"
)

// Marshaller is anything that produces its own binary encoding.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Example will be written out to a file, .json and .bin
// Filename should have no path and no extension
type Example struct {
	Filename string
	Obj      Marshaller
}

// TestGenCmd generates sample binary and json encodings
// of various objects to test against.
func TestGenCmd(examples []Example, args []string) error {
	outdir := "testdata"
	if len(args) > 0 {
		outdir = args[0]
	}
	if err := os.MkdirAll(outdir, 0755); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "create %s: %s", outdir, err)
	}

	for _, ex := range examples {
		js, err := json.MarshalIndent(ex.Obj, "", "  ")
		if err != nil {
			return errors.Wrapf(errors.ErrInvalidInput, "%s json: %s", ex.Filename, err)
		}
		if err := write(filepath.Join(outdir, ex.Filename+".json"), js); err != nil {
			return err
		}

		bin, err := ex.Obj.Marshal()
		if err != nil {
			return errors.Wrap(err, ex.Filename)
		}
		if err := write(filepath.Join(outdir, ex.Filename+".bin"), bin); err != nil {
			return err
		}
	}
	return nil
}

func write(path string, data []byte) error {
	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write %s: %s", path, err)
	}
	return nil
}
