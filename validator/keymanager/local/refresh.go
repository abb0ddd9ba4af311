package local

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pharoslabs/pharos/async"
	"github.com/pharoslabs/pharos/io/file"
	"github.com/pharoslabs/pharos/validator/keymanager"
)

var debounceFileChangesInterval = time.Second

// Listen for changes to the accounts keystore file on disk to load in
// new keys we observe into the keymanager. This uses the fsnotify
// library to listen for file-system changes and debounces these events to
// ensure we can handle thousands of events fired in a short time-span.
func (k *Keymanager) listenForAccountChanges(ctx context.Context) {
	accountsFilePath := filepath.Join(k.accountsDir, AccountsKeystoreFileName)
	if !file.FileExists(accountsFilePath) {
		return
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.WithError(err).Error("Could not initialize file watcher")
		return
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.WithError(err).Error("Could not close file watcher")
		}
	}()
	if err := watcher.Add(accountsFilePath); err != nil {
		log.WithError(err).Errorf("Could not add file %s to file watcher", accountsFilePath)
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	fileChangesChan := make(chan interface{}, 100)
	defer close(fileChangesChan)

	// We debounce events sent over the file changes channel by an interval
	// to ensure we are not overwhelmed by a ton of events fired over the channel in
	// a short span of time.
	go async.Debounce(ctx, debounceFileChangesInterval, fileChangesChan, func(event interface{}) {
		ev, ok := event.(fsnotify.Event)
		if !ok {
			log.Errorf("Type %T is not a valid file system event", event)
			return
		}
		fileBytes, err := ioutil.ReadFile(ev.Name)
		if err != nil {
			log.WithError(err).Errorf("Could not read file at path: %s", ev.Name)
			return
		}
		accountsKeystore := &keymanager.Keystore{}
		if err := json.Unmarshal(fileBytes, accountsKeystore); err != nil {
			log.WithError(err).Errorf("Could not read valid, EIP-2335 keystore json file at path: %s", ev.Name)
			return
		}
		if err := k.reloadAccountsFromKeystore(accountsKeystore); err != nil {
			log.WithError(err).Error("Could not replace the accounts store from keystore file")
			return
		}
		log.Info("Reloaded validator keys into keymanager")
	})
	for {
		select {
		case event := <-watcher.Events:
			// If a file was modified, we attempt to read that file
			// and parse it into our accounts store.
			if event.Op&fsnotify.Write == fsnotify.Write {
				fileChangesChan <- event
			}
		case err := <-watcher.Errors:
			log.WithError(err).Errorf("Could not watch for file changes for: %s", accountsFilePath)
		case <-ctx.Done():
			return
		}
	}
}
