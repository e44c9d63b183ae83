package app

import (
	"io"

	"github.com/specialistvlad/taskgrid/internal/handlers"
	"github.com/specialistvlad/taskgrid/modules/env"
	"github.com/specialistvlad/taskgrid/modules/fail"
	"github.com/specialistvlad/taskgrid/modules/http_request"
	"github.com/specialistvlad/taskgrid/modules/print"
	"github.com/specialistvlad/taskgrid/modules/shell"
	"github.com/specialistvlad/taskgrid/modules/sleep"
	"github.com/specialistvlad/taskgrid/modules/socketio"
)

// coreModules is the definitive list of all modules that are compiled into
// the taskgrid binary.
func coreModules(outW io.Writer) []handlers.Module {
	return []handlers.Module{
		&env.Module{},
		&fail.Module{},
		&http_request.Module{},
		&print.Module{Out: outW},
		&shell.Module{},
		&sleep.Module{},
		&socketio.Module{},
	}
}
