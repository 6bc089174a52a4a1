package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-server/internal/ledgererr"
	"github.com/carson-networks/ledger-server/internal/operator/actions"
	"github.com/carson-networks/ledger-server/internal/storage"
)

// Operator is the worker that processes items from the queue. Each item runs
// in its own unit of work: the action's writes commit together or not at all.
type Operator struct {
	storage storage.IStorage
	queue   chan ActionItem
	logger  *logrus.Logger
}

func NewOperator(s storage.IStorage, queue chan ActionItem, logger *logrus.Logger) *Operator {
	return &Operator{
		storage: s,
		queue:   queue,
		logger:  logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		item.response <- ActionItemResponse{err: o.processItem(item)}
	}
}

func (o *Operator) processItem(item ActionItem) error {
	// The caller gave up while the item sat in the queue.
	if err := item.ctx.Err(); err != nil {
		return err
	}

	name := fmt.Sprintf("%T", item.action)
	log := o.logger.WithField("action", name)

	writer, err := o.storage.Write(item.ctx)
	if err != nil {
		log.WithError(err).Error("Operator.processItem.begin")
		return ledgererr.Storage("begin "+name, err)
	}

	err = item.action.Perform(item.ctx, writer)
	if err != nil {
		if rbErr := writer.Rollback(context.WithoutCancel(item.ctx)); rbErr != nil {
			log.WithError(rbErr).Error("Operator.processItem.rollback")
		}
		if ledgererr.KindOf(err) == ledgererr.KindUnknown {
			log.WithError(err).Error("Operator.processItem.perform")
		}
		return ledgererr.Storage(name, err)
	}

	if err = writer.Commit(item.ctx); err != nil {
		log.WithError(err).Error("Operator.processItem.commit")
		return ledgererr.Storage("commit "+name, err)
	}
	return nil
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
