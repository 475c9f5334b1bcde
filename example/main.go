package main

import (
	"github.com/go-extend/extend"
	"github.com/go-extend/extend/logger"
	"github.com/go-extend/extend/registry"
	"github.com/go-extend/extend/typemap"
)

func main() {
	log := logger.NewStdOutLogger()

	doc := &Document{
		Title: "Lazy plugins",
		Body:  "Plugin values are computed on first use and cached on the instance.",
	}

	words, _ := extend.Get[WordCount](doc)
	log.Info("word count computed", "words", words)

	// the second query answers from the document's extension store
	words, _ = extend.Get[WordCount](doc)
	log.Info("word count from cache", "words", words)

	sum, _ := extend.Get[Checksum](doc)
	log.Info("checksum", "sha256", sum)

	if lang, ok := extend.Get[Language](doc); ok {
		log.Info("language detected", "language", lang)
	} else {
		log.Warn("no language derivable")
	}

	// the registry based path, for callers that only know the plugin
	// type at runtime
	reg := registry.New(&registry.Options{Logger: log})

	if err := registry.Add[Checksum, *Document, string](reg); err != nil {
		log.Error("unable to register plugin", "error", err)
		return
	}
	reg.Freeze()

	value, ok, err := reg.Get(doc, typemap.KeyOf[Checksum]())
	if err != nil {
		log.Error("query failed", "error", err)
		return
	}

	if ok {
		log.Info("checksum via registry", "sha256", value)
	}
}
