// Package docs registers the OpenAPI description of the HTTP API with swag.
//
// The template is maintained by hand alongside the swag annotations in
// cmd/scripture-study and internal/http/handlers. Model definitions must
// match the JSON tags of the Go types they name.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/books/suggest": {
            "get": {
                "operationId": "suggestBooks",
                "parameters": [
                    {
                        "description": "Partial book name",
                        "example": "mos",
                        "in": "query",
                        "name": "q",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 10,
                        "description": "Max suggestions",
                        "in": "query",
                        "name": "limit",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.SuggestBooksResponse"
                        }
                    },
                    "503": {
                        "description": "No corpus loaded",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Suggest book names",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/chats": {
            "get": {
                "operationId": "listChats",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "description": "Page number",
                        "in": "query",
                        "minimum": 1,
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "description": "Items per page",
                        "in": "query",
                        "maximum": 100,
                        "minimum": 1,
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ListChatsResponse"
                        }
                    },
                    "500": {
                        "description": "Internal error",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List chats (paginated)",
                "tags": [
                    "Chats"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "createChat",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Optional title",
                        "in": "body",
                        "name": "body",
                        "schema": {
                            "$ref": "#/definitions/handlers.CreateChatRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Chat"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Create chat",
                "tags": [
                    "Chats"
                ]
            }
        },
        "/chats/{id}": {
            "delete": {
                "operationId": "deleteChat",
                "parameters": [
                    {
                        "description": "Chat ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Chat not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Delete chat",
                "tags": [
                    "Chats"
                ]
            },
            "get": {
                "operationId": "getChat",
                "parameters": [
                    {
                        "description": "Chat ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Chat"
                        }
                    },
                    "404": {
                        "description": "Chat not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get chat",
                "tags": [
                    "Chats"
                ]
            }
        },
        "/chats/{id}/messages": {
            "get": {
                "operationId": "listMessages",
                "parameters": [
                    {
                        "description": "Chat ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "default": 1,
                        "in": "query",
                        "name": "page",
                        "type": "integer"
                    },
                    {
                        "default": 20,
                        "in": "query",
                        "name": "page_size",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.ListMessagesResponse"
                        }
                    },
                    "404": {
                        "description": "Chat not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "List messages (paginated)",
                "tags": [
                    "Messages"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "postMessage",
                "parameters": [
                    {
                        "description": "Chat ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Message",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.PostMessageRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PostMessageResponse"
                        }
                    },
                    "400": {
                        "description": "Bad request",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Chat not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Send a message",
                "tags": [
                    "Messages"
                ]
            }
        },
        "/chats/{id}/title": {
            "put": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "updateChatTitle",
                "parameters": [
                    {
                        "description": "Chat ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "New title",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.UpdateChatTitleRequest"
                        }
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    },
                    "404": {
                        "description": "Chat not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Rename chat",
                "tags": [
                    "Chats"
                ]
            }
        },
        "/corpus": {
            "get": {
                "operationId": "getCorpus",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.CorpusInfoResponse"
                        }
                    },
                    "503": {
                        "description": "No corpus loaded",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Active corpus",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/references": {
            "get": {
                "operationId": "lookupReference",
                "parameters": [
                    {
                        "description": "Citation",
                        "example": "Alma 32:21",
                        "in": "query",
                        "name": "q",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/scripture.Coordinate"
                        }
                    },
                    "400": {
                        "description": "Invalid reference",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Resolve a citation",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/search": {
            "get": {
                "operationId": "searchVerses",
                "parameters": [
                    {
                        "description": "Search text",
                        "example": "goodly parents",
                        "in": "query",
                        "name": "q",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Max results",
                        "in": "query",
                        "name": "limit",
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.SearchResponse"
                        }
                    },
                    "503": {
                        "description": "No corpus loaded",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Search verses",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/study/bookmarks": {
            "get": {
                "operationId": "listBookmarks",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.BookmarksResponse"
                        }
                    }
                },
                "summary": "List bookmarks",
                "tags": [
                    "Study"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "addBookmark",
                "parameters": [
                    {
                        "description": "Bookmark",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AddBookmarkRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Bookmark"
                        }
                    },
                    "404": {
                        "description": "Verse not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Bookmark a verse",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/bookmarks/{id}": {
            "delete": {
                "operationId": "removeBookmark",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Bookmark ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Remove a bookmark",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/highlights": {
            "get": {
                "operationId": "listHighlights",
                "parameters": [
                    {
                        "description": "Only highlights on this verse",
                        "in": "query",
                        "name": "verse_id",
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.HighlightsResponse"
                        }
                    }
                },
                "summary": "List highlights",
                "tags": [
                    "Study"
                ]
            },
            "post": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "addHighlight",
                "parameters": [
                    {
                        "description": "Highlight",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.AddHighlightRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/domain.Highlight"
                        }
                    },
                    "400": {
                        "description": "Invalid color",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Highlight a verse",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/highlights/{id}": {
            "delete": {
                "operationId": "removeHighlight",
                "parameters": [
                    {
                        "description": "User ID (demo header)",
                        "example": "user123",
                        "in": "header",
                        "name": "X-User-ID",
                        "type": "string"
                    },
                    {
                        "description": "Highlight ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content",
                        "schema": {
                            "type": "string"
                        }
                    },
                    "404": {
                        "description": "Not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Remove a highlight",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/notes": {
            "get": {
                "operationId": "listNotes",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.NotesResponse"
                        }
                    }
                },
                "summary": "List notes",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/notes/{verseId}": {
            "delete": {
                "operationId": "deleteNote",
                "parameters": [
                    {
                        "description": "Verse ID",
                        "in": "path",
                        "name": "verseId",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "204": {
                        "description": "No Content"
                    }
                },
                "summary": "Delete the note of a verse",
                "tags": [
                    "Study"
                ]
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "saveNote",
                "parameters": [
                    {
                        "description": "Verse ID",
                        "in": "path",
                        "name": "verseId",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Note",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SaveNoteRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/domain.Note"
                        }
                    },
                    "204": {
                        "description": "Note removed"
                    }
                },
                "summary": "Write the note of a verse",
                "tags": [
                    "Study"
                ]
            }
        },
        "/study/position": {
            "get": {
                "operationId": "getPosition",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PositionResponse"
                        }
                    }
                },
                "summary": "Reading position",
                "tags": [
                    "Study"
                ]
            },
            "put": {
                "consumes": [
                    "application/json"
                ],
                "operationId": "setPosition",
                "parameters": [
                    {
                        "description": "Chapter being read",
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.SetPositionRequest"
                        }
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.PositionResponse"
                        }
                    },
                    "404": {
                        "description": "Chapter not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Set reading position",
                "tags": [
                    "Study"
                ]
            }
        },
        "/verses/{id}": {
            "get": {
                "operationId": "getVerse",
                "parameters": [
                    {
                        "description": "Verse ID",
                        "example": "1-nephi-3-7",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.VerseView"
                        }
                    },
                    "404": {
                        "description": "Verse not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Get verse",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/verses/{id}/xrefs/{n}": {
            "get": {
                "operationId": "followCrossReference",
                "parameters": [
                    {
                        "description": "Verse ID",
                        "in": "path",
                        "name": "id",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "description": "Cross-reference index",
                        "in": "path",
                        "name": "n",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.CrossReferenceResponse"
                        }
                    },
                    "404": {
                        "description": "Target not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Follow a cross-reference",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/volumes": {
            "get": {
                "operationId": "listVolumes",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.VolumesResponse"
                        }
                    }
                },
                "summary": "Table of contents",
                "tags": [
                    "Scripture"
                ]
            }
        },
        "/volumes/{volume}/books/{book}/chapters/{chapter}": {
            "get": {
                "operationId": "getChapter",
                "parameters": [
                    {
                        "example": "bom",
                        "in": "path",
                        "name": "volume",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "example": "1-nephi",
                        "in": "path",
                        "name": "book",
                        "required": true,
                        "type": "string"
                    },
                    {
                        "example": 3,
                        "in": "path",
                        "name": "chapter",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/services.ChapterView"
                        }
                    },
                    "404": {
                        "description": "Chapter not found",
                        "schema": {
                            "$ref": "#/definitions/handlers.ErrorResponse"
                        }
                    }
                },
                "summary": "Read a chapter",
                "tags": [
                    "Scripture"
                ]
            }
        }
    },
    "definitions": {
        "domain.Bookmark": {
            "properties": {
                "createdAt": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "label": {
                    "type": "string"
                },
                "verseId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Chat": {
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                },
                "user_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Highlight": {
            "properties": {
                "color": {
                    "type": "string"
                },
                "createdAt": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "verseId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Message": {
            "properties": {
                "blocked": {
                    "type": "boolean"
                },
                "chat_id": {
                    "type": "string"
                },
                "content": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "updated_at": {
                    "type": "string"
                },
                "verse_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Note": {
            "properties": {
                "text": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "verseId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "domain.Position": {
            "properties": {
                "bookId": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "updatedAt": {
                    "type": "string"
                },
                "volumeId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.AddBookmarkRequest": {
            "properties": {
                "label": {
                    "example": "Go and do",
                    "type": "string"
                },
                "verse_id": {
                    "example": "1-nephi-3-7",
                    "type": "string"
                }
            },
            "required": [
                "verse_id"
            ],
            "type": "object"
        },
        "handlers.AddHighlightRequest": {
            "properties": {
                "color": {
                    "example": "yellow",
                    "type": "string"
                },
                "verse_id": {
                    "example": "alma-32-21",
                    "type": "string"
                }
            },
            "required": [
                "verse_id"
            ],
            "type": "object"
        },
        "handlers.BookmarksResponse": {
            "properties": {
                "bookmarks": {
                    "items": {
                        "$ref": "#/definitions/domain.Bookmark"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.CorpusInfoResponse": {
            "properties": {
                "debounce_ms": {
                    "example": 300,
                    "type": "integer"
                },
                "fingerprint": {
                    "type": "string"
                },
                "loaded_at": {
                    "type": "string"
                },
                "min_query_length": {
                    "example": 3,
                    "type": "integer"
                },
                "reused": {
                    "type": "boolean"
                },
                "stats": {
                    "$ref": "#/definitions/scripture.Stats"
                }
            },
            "type": "object"
        },
        "handlers.CreateChatRequest": {
            "properties": {
                "title": {
                    "example": "Faith study",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.CrossReferenceResponse": {
            "properties": {
                "target": {
                    "$ref": "#/definitions/scripture.Coordinate"
                },
                "verse": {
                    "$ref": "#/definitions/services.VerseView"
                }
            },
            "type": "object"
        },
        "handlers.ErrorResponse": {
            "properties": {
                "code": {
                    "example": "not_found",
                    "type": "string"
                },
                "message": {
                    "example": "verse not found",
                    "type": "string"
                },
                "request_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.HighlightsResponse": {
            "properties": {
                "highlights": {
                    "items": {
                        "$ref": "#/definitions/domain.Highlight"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.ListChatsResponse": {
            "properties": {
                "chats": {
                    "items": {
                        "$ref": "#/definitions/domain.Chat"
                    },
                    "type": "array"
                },
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                }
            },
            "type": "object"
        },
        "handlers.ListMessagesResponse": {
            "properties": {
                "messages": {
                    "items": {
                        "$ref": "#/definitions/domain.Message"
                    },
                    "type": "array"
                },
                "pagination": {
                    "$ref": "#/definitions/handlers.Pagination"
                }
            },
            "type": "object"
        },
        "handlers.NotesResponse": {
            "properties": {
                "notes": {
                    "items": {
                        "$ref": "#/definitions/domain.Note"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.Pagination": {
            "properties": {
                "has_next": {
                    "type": "boolean"
                },
                "page": {
                    "type": "integer"
                },
                "page_size": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                },
                "total_pages": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "handlers.PositionResponse": {
            "properties": {
                "position": {
                    "$ref": "#/definitions/domain.Position"
                }
            },
            "type": "object"
        },
        "handlers.PostMessageRequest": {
            "properties": {
                "content": {
                    "example": "What does Alma teach about faith?",
                    "type": "string"
                }
            },
            "required": [
                "content"
            ],
            "type": "object"
        },
        "handlers.PostMessageResponse": {
            "properties": {
                "blocked": {
                    "type": "boolean"
                },
                "chat_title": {
                    "type": "string"
                },
                "message": {
                    "$ref": "#/definitions/domain.Message"
                },
                "user": {
                    "$ref": "#/definitions/domain.Message"
                }
            },
            "type": "object"
        },
        "handlers.SaveNoteRequest": {
            "properties": {
                "text": {
                    "example": "Compare with Hebrews 11:1",
                    "type": "string"
                }
            },
            "type": "object"
        },
        "handlers.SetPositionRequest": {
            "properties": {
                "book_id": {
                    "example": "alma",
                    "type": "string"
                },
                "chapter": {
                    "example": 32,
                    "type": "integer"
                },
                "volume_id": {
                    "example": "bom",
                    "type": "string"
                }
            },
            "required": [
                "volume_id",
                "book_id",
                "chapter"
            ],
            "type": "object"
        },
        "handlers.SuggestBooksResponse": {
            "properties": {
                "books": {
                    "items": {
                        "$ref": "#/definitions/scripture.BookSuggestion"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "handlers.UpdateChatTitleRequest": {
            "properties": {
                "title": {
                    "example": "Faith study",
                    "type": "string"
                }
            },
            "required": [
                "title"
            ],
            "type": "object"
        },
        "handlers.VolumesResponse": {
            "properties": {
                "volumes": {
                    "items": {
                        "$ref": "#/definitions/services.VolumeSummary"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "scripture.BookSuggestion": {
            "properties": {
                "bookId": {
                    "type": "string"
                },
                "matchedIndexes": {
                    "items": {
                        "type": "integer"
                    },
                    "type": "array"
                },
                "name": {
                    "type": "string"
                },
                "score": {
                    "type": "integer"
                },
                "volumeId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "scripture.Chapter": {
            "properties": {
                "book": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "id": {
                    "type": "string"
                },
                "summary": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "verses": {
                    "items": {
                        "$ref": "#/definitions/scripture.Verse"
                    },
                    "type": "array"
                }
            },
            "type": "object"
        },
        "scripture.ChapterRef": {
            "properties": {
                "bookId": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "volumeId": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "scripture.Coordinate": {
            "properties": {
                "bookId": {
                    "type": "string"
                },
                "bookName": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "verse": {
                    "type": "integer"
                },
                "verseId": {
                    "type": "string"
                },
                "volumeId": {
                    "type": "string"
                },
                "volumeName": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "scripture.CrossReference": {
            "properties": {
                "book": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "label": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "verse": {
                    "type": "integer"
                },
                "volume": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "scripture.Stats": {
            "properties": {
                "books": {
                    "type": "integer"
                },
                "chapters": {
                    "type": "integer"
                },
                "verses": {
                    "type": "integer"
                },
                "volumes": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "scripture.Verse": {
            "properties": {
                "book": {
                    "type": "string"
                },
                "chapter": {
                    "type": "integer"
                },
                "crossReferences": {
                    "items": {
                        "$ref": "#/definitions/scripture.CrossReference"
                    },
                    "type": "array"
                },
                "id": {
                    "type": "string"
                },
                "text": {
                    "type": "string"
                },
                "topicalGuideEntries": {
                    "items": {
                        "type": "string"
                    },
                    "type": "array"
                },
                "verse": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "search.Segment": {
            "properties": {
                "isMatch": {
                    "type": "boolean"
                },
                "text": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "search.Span": {
            "properties": {
                "end": {
                    "type": "integer"
                },
                "start": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "services.BookSummary": {
            "properties": {
                "abbreviation": {
                    "type": "string"
                },
                "chapters": {
                    "items": {
                        "type": "integer"
                    },
                    "type": "array"
                },
                "full_name": {
                    "type": "string"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "services.ChapterView": {
            "properties": {
                "book_id": {
                    "type": "string"
                },
                "book_name": {
                    "type": "string"
                },
                "chapter": {
                    "$ref": "#/definitions/scripture.Chapter"
                },
                "next": {
                    "$ref": "#/definitions/scripture.ChapterRef"
                },
                "previous": {
                    "$ref": "#/definitions/scripture.ChapterRef"
                },
                "volume_id": {
                    "type": "string"
                },
                "volume_name": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "services.SearchResponse": {
            "properties": {
                "query": {
                    "type": "string"
                },
                "results": {
                    "items": {
                        "$ref": "#/definitions/services.SearchResult"
                    },
                    "type": "array"
                },
                "took_ms": {
                    "type": "number"
                },
                "total": {
                    "type": "integer"
                }
            },
            "type": "object"
        },
        "services.SearchResult": {
            "properties": {
                "context": {
                    "type": "string"
                },
                "coordinate": {
                    "$ref": "#/definitions/scripture.Coordinate"
                },
                "phrase": {
                    "type": "boolean"
                },
                "reference": {
                    "type": "string"
                },
                "score": {
                    "type": "number"
                },
                "segments": {
                    "items": {
                        "$ref": "#/definitions/search.Segment"
                    },
                    "type": "array"
                },
                "spans": {
                    "items": {
                        "$ref": "#/definitions/search.Span"
                    },
                    "type": "array"
                },
                "text": {
                    "type": "string"
                },
                "verse_id": {
                    "type": "string"
                }
            },
            "type": "object"
        },
        "services.VerseView": {
            "properties": {
                "coordinate": {
                    "$ref": "#/definitions/scripture.Coordinate"
                },
                "reference": {
                    "type": "string"
                },
                "verse": {
                    "$ref": "#/definitions/scripture.Verse"
                }
            },
            "type": "object"
        },
        "services.VolumeSummary": {
            "properties": {
                "abbreviation": {
                    "type": "string"
                },
                "books": {
                    "items": {
                        "$ref": "#/definitions/services.BookSummary"
                    },
                    "type": "array"
                },
                "id": {
                    "type": "string"
                },
                "name": {
                    "type": "string"
                }
            },
            "type": "object"
        }
    },
    "securityDefinitions": {
        "UserID": {
            "type": "apiKey",
            "name": "X-User-ID",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Scripture Study API",
	Description:      "Full-text scripture search, chapter navigation, personal study notes and a study chat assistant.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
