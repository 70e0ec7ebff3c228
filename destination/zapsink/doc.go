// Package zapsink bridges the pipeline to go.uber.org/zap. Entries keep
// their category, properties, tags, stack trace and error as structured
// zap fields.
package zapsink
