package errors

import (
	stderrors "errors"
	"testing"
)

func TestKindChecks(t *testing.T) {
	cause := stderrors.New("disk full")
	dbErr := NewDB("report.SaveRun", "cannot save run", cause)

	if !Is(dbErr, ErrDB) {
		t.Error("DBError should match ErrDB")
	}
	if Is(dbErr, ErrValidation) {
		t.Error("DBError should not match ErrValidation")
	}
	if !stderrors.Is(dbErr, cause) {
		t.Error("wrapped cause should unwrap")
	}

	var d *DBError
	if !stderrors.As(dbErr, &d) {
		t.Fatal("errors.As should extract *DBError")
	}
	if d.Operation() != "report.SaveRun" {
		t.Errorf("Operation() = %q", d.Operation())
	}

	valErr := NewValidation("config.ParsePresets", "preset without a name", nil)
	if !Is(valErr, ErrValidation) {
		t.Error("ValidationError should match ErrValidation")
	}

	toolErr := NewExternalTool("exifwriter.New", "exiftool", "cannot start session", cause)
	if !Is(toolErr, ErrExternal) {
		t.Error("ExternalToolError should match ErrExternal")
	}
	if got := toolErr.Error(); got == "" {
		t.Error("empty error string")
	}
}

func TestIs_NilSafe(t *testing.T) {
	if Is(nil, ErrDB) {
		t.Error("nil error matches nothing")
	}
}
