package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/fluxbox-wayland/fluxwm/internal/ipc"
)

// Bootstrap loads every best-effort config file, binds the IPC socket and
// starts the config-file watcher. Binding the IPC socket is the one
// fatal-on-failure step spec §7 names ("inability to ... bind the IPC
// socket — exit with code 1"); everything else is best-effort per spec
// §7's "Config files are best-effort; a missing apps file is not fatal."
func (s *Server) Bootstrap() error {
	if err := s.loadConfigFiles(); err != nil {
		log.Printf("server: config load: %v", err)
	}

	path := s.Config.IPCSocketPath
	if path == "" {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		socketName := s.Config.SocketName
		if socketName == "" {
			socketName = os.Getenv("WAYLAND_DISPLAY")
		}
		path = ipc.DefaultSocketPath(runtimeDir, socketName)
	}
	s.IPC = ipc.NewServer(path, s)
	if err := s.IPC.Start(); err != nil {
		return fmt.Errorf("server: bind ipc socket %s: %w", path, err)
	}
	log.Printf("server: ipc listening on %s", path)

	if err := s.watchConfigFiles(); err != nil {
		log.Printf("server: config watch: %v", err)
	}

	if err := s.Tray.Start(s.Config.TrayCommand); err != nil {
		log.Printf("server: tray: %v", err)
	}
	return nil
}

// loadConfigFiles (re)loads the apps-rules and slit-list stores. Style/
// menu/keys parsing are out of this module's scope (spec §1 "Explicitly
// out of scope": style-sheet and menu-file parsing); only the file paths
// are tracked here, for `dump-config` to report.
func (s *Server) loadConfigFiles() error {
	if err := s.Rules.Load(s.Config.AppsFile); err != nil {
		return fmt.Errorf("apps file: %w", err)
	}
	slitPath := filepath.Join(s.Config.ConfigDir, "slitlist")
	if err := s.SlitList.Load(slitPath); err != nil {
		return fmt.Errorf("slit list: %w", err)
	}
	return nil
}

// watchConfigFiles starts an fsnotify watcher over the config directory
// so an external edit to the apps/keys/style/menu files triggers the same
// reload path as an explicit `reconfigure` IPC command.
func (s *Server) watchConfigFiles() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(s.Config.ConfigDir); err != nil {
		watcher.Close()
		return err
	}
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					log.Printf("server: config file changed: %s", event.Name)
					s.Reconfigure()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("server: config watcher error: %v", err)
			}
		}
	}()
	return nil
}

// Teardown runs the exact cleanup ordering spec §9's "Ordering of
// cleanup" design note mandates: stop the tray helper subprocess, persist
// the slit list, disconnect remaining clients, unlink listeners, destroy
// UI widgets, destroy the XWayland side, destroy the scene, destroy
// cursor/allocator/renderer/backend, free rule and binding vectors,
// destroy the event loop. This module owns everything up through "free
// rule and binding vectors"; the scene/backend/event-loop steps belong to
// the wlroots-equivalent backend this core treats as an external
// collaborator (spec §1).
func (s *Server) Teardown() {
	if err := s.Tray.Stop(); err != nil {
		log.Printf("server: teardown: stop tray: %v", err)
	}

	if err := s.SlitList.Save(); err != nil {
		log.Printf("server: teardown: persist slit list: %v", err)
	}

	if s.IPC != nil {
		if err := s.IPC.Stop(); err != nil {
			log.Printf("server: teardown: stop ipc: %v", err)
		}
	}

	if s.SessionLock.Locked {
		s.SessionLock.Unlock()
	}

	// Destroy UI widgets / XWayland side / scene / cursor / allocator /
	// renderer / backend: all backend-owned resources outside this
	// module's scope (spec §1).

	s.Rules = nil
	s.SlitList = nil
}
