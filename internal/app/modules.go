package app

import (
	"github.com/selfdocumentingcode/cmdargs/converters/enum"
	"github.com/selfdocumentingcode/cmdargs/converters/primitive"
	"github.com/selfdocumentingcode/cmdargs/converters/temporal"
	"github.com/selfdocumentingcode/cmdargs/internal/convert"
)

// coreModules is the definitive list of converter modules compiled into the
// cmdargs binary. Hosts embedding the library can pass their own list to
// NewApp instead.
var coreModules = []convert.Module{
	&primitive.Module{},
	&temporal.Module{},
	&enum.Module{},
}
