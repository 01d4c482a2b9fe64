package syncer

import (
	"github.com/dmitrijs2005/myday/internal/client/live"
	"github.com/dmitrijs2005/myday/internal/client/models"
	"github.com/dmitrijs2005/myday/internal/client/repositories/entries"
	"github.com/dmitrijs2005/myday/internal/client/repositories/links"
	"github.com/dmitrijs2005/myday/internal/dbx"
)

// EntryCodec replicates diary entries to the diaries collection.
func EntryCodec() Codec[*models.Entry] {
	return Codec[*models.Entry]{
		Collection:   models.EntryCollection,
		Topic:        live.TopicEntries,
		Repo:         func(db dbx.DBTX) Local[*models.Entry] { return entries.NewSQLiteRepository(db) },
		FromDocument: models.EntryFromDocument,
	}
}

// LinkCodec replicates saved links to the social_media_links collection.
func LinkCodec() Codec[*models.SocialLink] {
	return Codec[*models.SocialLink]{
		Collection:   models.LinkCollection,
		Topic:        live.TopicLinks,
		Repo:         func(db dbx.DBTX) Local[*models.SocialLink] { return links.NewSQLiteRepository(db) },
		FromDocument: models.LinkFromDocument,
	}
}
