package dashboard

import "fmt"

// ProgressUpdate represents a progress event during a render pass.
type ProgressUpdate struct {
	Page    Page   // Page being rendered
	Phase   Phase  // Operation phase
	Message string // Human-readable message for display
}

// Phase enumerates the steps of a render pass.
type Phase int

const (
	LoadDataset Phase = iota
	Summarize
	Aggregate
	Bucket
	Sample
	Filter
	Done
)

func (p Phase) String() string {
	switch p {
	case LoadDataset:
		return "load_dataset"
	case Summarize:
		return "summarize"
	case Aggregate:
		return "aggregate"
	case Bucket:
		return "bucket"
	case Sample:
		return "sample"
	case Filter:
		return "filter"
	case Done:
		return "done"
	default:
		return ""
	}
}

func loadingUpdate(page Page, path string) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: LoadDataset, Message: fmt.Sprintf("Loading %s...", path)}
}

func summarizingUpdate(page Page) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Summarize, Message: "Computing key metrics..."}
}

func aggregatingUpdate(page Page, what string) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Aggregate, Message: fmt.Sprintf("Aggregating %s...", what)}
}

func bucketingUpdate(page Page, bins int) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Bucket, Message: fmt.Sprintf("Bucketing popularity into %d bins...", bins)}
}

func samplingUpdate(page Page, n int) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Sample, Message: fmt.Sprintf("Sampling %d songs...", n)}
}

func filteringUpdate(page Page) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Filter, Message: "Applying filters..."}
}

func doneUpdate(page Page) ProgressUpdate {
	return ProgressUpdate{Page: page, Phase: Done, Message: fmt.Sprintf("%s ready", page.Title())}
}
