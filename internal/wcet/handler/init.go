package handler

import (
	"sync"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
)

var (
	wcetHandlerInstance WcetHandler
	initOnce            sync.Once
)

// InitWcetHandler builds the shared handler on first call. Later calls
// return it and ignore p.
func InitWcetHandler(p *pipeline.Pipeline) WcetHandler {
	initOnce.Do(func() {
		wcetHandlerInstance = NewWcetHandler(p)
	})
	return wcetHandlerInstance
}
