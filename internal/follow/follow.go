package follow

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/altinukshini/logview/internal/ui"
)

// Watcher re-reads a log file whenever it changes on disk. It watches the
// parent directory so that files replaced by rename (log rotation, editors)
// keep being followed.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan ui.FileChangedMsg
	done    chan struct{}
}

func New(path string) (*Watcher, error) {
	path = filepath.Clean(path)
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:    path,
		watcher: fw,
		changes: make(chan ui.FileChangedMsg, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop() {
	defer close(w.changes)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			data, err := os.ReadFile(w.path)
			if err != nil {
				log.Printf("follow: reading %s after %s: %v", w.path, event.Op, err)
			}
			w.publish(ui.FileChangedMsg{Path: w.path, Content: string(data), Err: err})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("follow: watcher error for %s: %v", w.path, err)
			w.publish(ui.FileChangedMsg{Path: w.path, Err: err})
		}
	}
}

// publish keeps only the newest pending change so a slow consumer always
// reads the latest file content.
func (w *Watcher) publish(msg ui.FileChangedMsg) {
	select {
	case w.changes <- msg:
		return
	default:
	}
	select {
	case <-w.changes:
	default:
	}
	select {
	case w.changes <- msg:
	case <-w.done:
	}
}

// Wait returns a command that blocks until the next change. Issue it again
// after each FileChangedMsg to keep following.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.changes
		if !ok {
			return nil
		}
		return msg
	}
}

func (w *Watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	return w.watcher.Close()
}

// ReadFile loads a log file once.
func ReadFile(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return ui.LogLoadedMsg{Name: filepath.Base(path), Err: fmt.Errorf("read log file: %w", err)}
		}
		return ui.LogLoadedMsg{Name: filepath.Base(path), Content: string(data)}
	}
}
