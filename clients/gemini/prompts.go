package gemini

import (
	"strings"

	"github.com/meetscribe/backend/services/meeting/entity"
)

const mapSummaryPrompt = `Write a concise summary of the following meeting transcript section:

%s

CONCISE SUMMARY:`

const reduceSummaryPrompt = `The following are partial summaries of one meeting:

%s

Combine them into a single coherent summary of the whole meeting:`

const actionItemsTemplateEnglish = `Extract all action items from the following meeting transcript.
For each action item, identify:
1. The task to be done
2. The person assigned to the task (if mentioned)
3. The due date or deadline (if mentioned)

Format your response as a JSON array with objects containing "text", "assignee", and "due_date" fields.
If assignee or due date is not specified, leave those fields empty.

Example:
[
    {
        "text": "Prepare the quarterly report",
        "assignee": "John",
        "due_date": "2023-04-15"
    },
    {
        "text": "Schedule the client meeting",
        "assignee": "Sarah",
        "due_date": ""
    }
]

Transcript:
%s`

const actionItemsTemplateMandarin = `从以下会议记录中提取所有行动项目。
对于每个行动项目，请确定：
1. 需要完成的任务
2. 分配给该任务的人员（如果提到）
3. 截止日期或期限（如果提到）

将您的回复格式化为包含"text"、"assignee"和"due_date"字段的JSON数组。
如果未指定负责人或截止日期，请将这些字段留空。

示例：
[
    {
        "text": "准备季度报告",
        "assignee": "张三",
        "due_date": "2023-04-15"
    },
    {
        "text": "安排客户会议",
        "assignee": "李四",
        "due_date": ""
    }
]

会议记录：
%s`

const actionItemsTemplateCantonese = `從以下會議記錄中提取所有行動項目。
對於每個行動項目，請確定：
1. 需要完成嘅任務
2. 分配俾該任務嘅人員（如果提到）
3. 截止日期或期限（如果提到）

將您嘅回覆格式化為包含"text"、"assignee"同"due_date"字段嘅JSON數組。
如果未指定負責人或截止日期，請將呢啲字段留空。

示例：
[
    {
        "text": "準備季度報告",
        "assignee": "張三",
        "due_date": "2023-04-15"
    },
    {
        "text": "安排客戶會議",
        "assignee": "李四",
        "due_date": ""
    }
]

會議記錄：
%s`

const actionItemsTemplateDefault = `Extract all action items from the following meeting transcript in any language.
For each action item, identify:
1. The task to be done
2. The person assigned to the task (if mentioned)
3. The due date or deadline (if mentioned)

Format your response as a JSON array with objects containing "text", "assignee", and "due_date" fields.
If assignee or due date is not specified, leave those fields empty.

Example:
[
    {
        "text": "Prepare the quarterly report",
        "assignee": "John",
        "due_date": "2023-04-15"
    },
    {
        "text": "安排客户会议",
        "assignee": "李四",
        "due_date": ""
    }
]

Transcript:
%s`

const decisionsTemplateEnglish = `Extract all key decisions made during the meeting from the following transcript.
Format your response as a JSON array with objects containing "text" field for each decision.

Example:
[
    {
        "text": "Approved the budget increase for Q2"
    },
    {
        "text": "Decided to postpone the product launch until September"
    }
]

Transcript:
%s`

const decisionsTemplateMandarin = `从以下会议记录中提取会议期间做出的所有关键决定。
将您的回复格式化为包含每个决定的"text"字段的JSON数组。

示例：
[
    {
        "text": "批准了第二季度的预算增加"
    },
    {
        "text": "决定将产品发布推迟到9月"
    }
]

会议记录：
%s`

const decisionsTemplateCantonese = `從以下會議記錄中提取會議期間做出嘅所有關鍵決定。
將您嘅回覆格式化為包含每個決定嘅"text"字段嘅JSON數組。

示例：
[
    {
        "text": "批准咗第二季度嘅預算增加"
    },
    {
        "text": "決定將產品發佈推遲到9月"
    }
]

會議記錄：
%s`

const decisionsTemplateDefault = `Extract all key decisions made during the meeting from the following transcript in any language.
Format your response as a JSON array with objects containing "text" field for each decision.

Example:
[
    {
        "text": "Approved the budget increase for Q2"
    },
    {
        "text": "决定将产品发布推迟到9月"
    }
]

Transcript:
%s`

// actionItemsTemplate selects the extraction prompt by exact
// case-insensitive language match, with a language-agnostic fallback.
func actionItemsTemplate(language string) string {
	switch strings.ToLower(language) {
	case entity.LanguageEnglish:
		return actionItemsTemplateEnglish
	case entity.LanguageMandarin:
		return actionItemsTemplateMandarin
	case entity.LanguageCantonese:
		return actionItemsTemplateCantonese
	default:
		return actionItemsTemplateDefault
	}
}

func decisionsTemplate(language string) string {
	switch strings.ToLower(language) {
	case entity.LanguageEnglish:
		return decisionsTemplateEnglish
	case entity.LanguageMandarin:
		return decisionsTemplateMandarin
	case entity.LanguageCantonese:
		return decisionsTemplateCantonese
	default:
		return decisionsTemplateDefault
	}
}
