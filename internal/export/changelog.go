package export

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoChanges журнал не формируется, если изменений с последней выгрузки нет.
var ErrNoChanges = errors.New("no changes to log since last export")

// ChangeLog журнал изменений с последней выгрузки в формате Markdown.
func ChangeLog(changes int, generatedAt time.Time) ([]byte, error) {
	if changes <= 0 {
		return nil, ErrNoChanges
	}
	out := fmt.Sprintf("# Change Log\n\n"+
		"**Generated:** %s\n"+
		"**Changes since last export:** %d\n\n"+
		"## Summary\n\n"+
		"Changes have been made to the subscriber database since the last export.\n"+
		"Please export the latest data to keep your backup synchronized.\n\n"+
		"---\n"+
		"*Generated by Elite Salon Management System*",
		generatedAt.Format("Jan 2, 2006"), changes)
	return []byte(out), nil
}
