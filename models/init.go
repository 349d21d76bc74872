package models

import "artfolio/db"

func Init() {
	for _, model := range []interface{}{
		&User{},
		&Grant{},
		&Invitation{},
		&Gallery{},
		&GalleryItem{},
		&PageView{},
	} {
		if err := db.Instance.AutoMigrate(model); err != nil {
			panic(err)
		}
	}
}
