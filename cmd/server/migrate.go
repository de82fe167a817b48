package main

import (
	"log"
	"os"

	"github.com/formlite/formlite/internal/api"
)

// ImportSnapshotIfPresent loads a legacy JSON snapshot into the store on
// first run. The snapshot file is renamed afterwards so the import never
// repeats. A missing file or empty path is not an error.
func ImportSnapshotIfPresent(store api.Store, path string) error {
	if path == "" {
		return nil
	}
	snap, err := api.LoadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var users, formCount, respCount int
	for _, u := range snap.Users {
		if existing, _ := store.FindUserByEmail(u.Email); existing != nil {
			continue
		}
		if err := store.AddUser(u); err != nil {
			log.Printf("snapshot: skip user %s: %v", u.Email, err)
			continue
		}
		users++
	}
	for _, f := range snap.Forms {
		if store.GetForm(f.ID) != nil {
			continue
		}
		store.AddForm(f)
		formCount++
	}
	for formID, rs := range snap.Responses {
		for _, r := range rs {
			if r.FormID == "" {
				r.FormID = formID
			}
			if err := store.AddResponse(r); err != nil {
				log.Printf("snapshot: skip response %s: %v", r.ID, err)
				continue
			}
			respCount++
		}
	}
	log.Printf("snapshot import: %d users, %d forms, %d responses from %s",
		users, formCount, respCount, path)

	if err := os.Rename(path, path+".imported"); err != nil {
		log.Printf("snapshot: could not rename %s: %v", path, err)
	}
	return nil
}
