package githubapi

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Shape names the expected structure of a response body.
type Shape string

const (
	ShapeAny              Shape = ""
	ShapeRepository       Shape = "repository"
	ShapeContent          Shape = "content"
	ShapeFileCommit       Shape = "file_commit"
	ShapeRef              Shape = "ref"
	ShapeCommitList       Shape = "commit_list"
	ShapeBranchList       Shape = "branch_list"
	ShapeIssue            Shape = "issue"
	ShapeIssueList        Shape = "issue_list"
	ShapeComment          Shape = "comment"
	ShapeCommentList      Shape = "comment_list"
	ShapePullRequest      Shape = "pull_request"
	ShapePullRequestList  Shape = "pull_request_list"
	ShapePullRequestFiles Shape = "pull_request_files"
	ShapeMergeResult      Shape = "merge_result"
	ShapeCombinedStatus   Shape = "combined_status"
	ShapeReview           Shape = "review"
	ShapeReviewList       Shape = "review_list"
	ShapeUpdateBranch     Shape = "update_branch"
	ShapeSearchResult     Shape = "search_result"
	ShapeWorkflowRun      Shape = "workflow_run"
	ShapeWorkflowRunList  Shape = "workflow_run_list"
	ShapeWorkflowJobList  Shape = "workflow_job_list"
)

const schemaLocation = "https://gh-triage-mcp.local/shapes.json"

// shapesJSON only pins down the fields callers depend on; GitHub adds fields
// freely, so additional properties are always allowed.
const shapesJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$defs": {
    "repository": {
      "type": "object",
      "required": ["id", "name", "full_name"],
      "properties": {
        "id": {"type": "integer"},
        "name": {"type": "string"},
        "full_name": {"type": "string"}
      }
    },
    "content_item": {
      "type": "object",
      "required": ["type", "name", "path"],
      "properties": {"type": {"type": "string"}, "path": {"type": "string"}}
    },
    "content": {
      "oneOf": [
        {"$ref": "#/$defs/content_item"},
        {"type": "array", "items": {"$ref": "#/$defs/content_item"}}
      ]
    },
    "file_commit": {
      "type": "object",
      "required": ["commit"],
      "properties": {"commit": {"type": "object", "required": ["sha"]}}
    },
    "ref": {
      "type": "object",
      "required": ["ref", "object"],
      "properties": {
        "ref": {"type": "string"},
        "object": {"type": "object", "required": ["sha"], "properties": {"sha": {"type": "string"}}}
      }
    },
    "commit_list": {
      "type": "array",
      "items": {"type": "object", "required": ["sha"]}
    },
    "branch_list": {
      "type": "array",
      "items": {"type": "object", "required": ["name"]}
    },
    "issue": {
      "type": "object",
      "required": ["id", "number", "title", "state"],
      "properties": {
        "id": {"type": "integer"},
        "number": {"type": "integer"},
        "title": {"type": "string"},
        "state": {"type": "string"}
      }
    },
    "issue_list": {"type": "array", "items": {"$ref": "#/$defs/issue"}},
    "comment": {
      "type": "object",
      "required": ["id", "body"],
      "properties": {"id": {"type": "integer"}}
    },
    "comment_list": {"type": "array", "items": {"$ref": "#/$defs/comment"}},
    "pull_request": {
      "type": "object",
      "required": ["id", "number", "title", "state", "head", "base"],
      "properties": {
        "id": {"type": "integer"},
        "number": {"type": "integer"},
        "head": {"type": "object", "required": ["sha"]},
        "base": {"type": "object"}
      }
    },
    "pull_request_list": {"type": "array", "items": {"$ref": "#/$defs/pull_request"}},
    "pull_request_files": {
      "type": "array",
      "items": {"type": "object", "required": ["filename", "status"]}
    },
    "merge_result": {
      "type": "object",
      "required": ["merged", "message"],
      "properties": {"merged": {"type": "boolean"}}
    },
    "combined_status": {
      "type": "object",
      "required": ["state", "statuses"],
      "properties": {"statuses": {"type": "array"}}
    },
    "review": {
      "type": "object",
      "required": ["id", "state"],
      "properties": {"id": {"type": "integer"}, "state": {"type": "string"}}
    },
    "review_list": {"type": "array", "items": {"$ref": "#/$defs/review"}},
    "update_branch": {
      "type": "object",
      "required": ["message"]
    },
    "search_result": {
      "type": "object",
      "required": ["total_count", "items"],
      "properties": {
        "total_count": {"type": "integer"},
        "incomplete_results": {"type": "boolean"},
        "items": {"type": "array"}
      }
    },
    "workflow_run": {
      "type": "object",
      "required": ["id", "status"],
      "properties": {"id": {"type": "integer"}}
    },
    "workflow_run_list": {
      "type": "object",
      "required": ["total_count", "workflow_runs"],
      "properties": {
        "workflow_runs": {"type": "array", "items": {"$ref": "#/$defs/workflow_run"}}
      }
    },
    "workflow_job_list": {
      "type": "object",
      "required": ["total_count", "jobs"],
      "properties": {
        "jobs": {"type": "array", "items": {"type": "object", "required": ["id", "name"]}}
      }
    }
  }
}`

var (
	schemasOnce sync.Once
	schemas     map[Shape]*jsonschema.Schema
	schemasErr  error
)

func compileSchemas() {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(shapesJSON))
	if err != nil {
		schemasErr = fmt.Errorf("parse response schemas: %w", err)
		return
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaLocation, doc); err != nil {
		schemasErr = fmt.Errorf("add response schemas: %w", err)
		return
	}

	compiled := make(map[Shape]*jsonschema.Schema)
	for _, shape := range []Shape{
		ShapeRepository, ShapeContent, ShapeFileCommit, ShapeRef, ShapeCommitList,
		ShapeBranchList, ShapeIssue, ShapeIssueList, ShapeComment, ShapeCommentList,
		ShapePullRequest, ShapePullRequestList, ShapePullRequestFiles, ShapeMergeResult,
		ShapeCombinedStatus, ShapeReview, ShapeReviewList, ShapeUpdateBranch,
		ShapeSearchResult, ShapeWorkflowRun, ShapeWorkflowRunList, ShapeWorkflowJobList,
	} {
		sch, err := c.Compile(schemaLocation + "#/$defs/" + string(shape))
		if err != nil {
			schemasErr = fmt.Errorf("compile %s schema: %w", shape, err)
			return
		}
		compiled[shape] = sch
	}
	schemas = compiled
}

// validate checks data against the schema for shape. ShapeAny accepts any JSON.
func validate(shape Shape, data []byte) error {
	schemasOnce.Do(compileSchemas)
	if schemasErr != nil {
		return schemasErr
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return &SchemaError{Shape: shape, Err: err}
	}
	if shape == ShapeAny {
		return nil
	}

	sch, ok := schemas[shape]
	if !ok {
		return fmt.Errorf("no response schema for %q", shape)
	}
	if err := sch.Validate(inst); err != nil {
		return &SchemaError{Shape: shape, Err: err}
	}
	return nil
}
