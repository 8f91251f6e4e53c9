package graphql

const findNodeQuery = `
query FindNode($path: String!) {
  jcr {
    nodeByPath(path: $path) {
      uuid
      path
    }
  }
}`

const collectionQuery = `
query ControlledLists($rootPath: String!, $language: String!) {
  jcr {
    nodeByPath(path: $rootPath) {
      children(typesFilter: {types: ["cl:controlledList"]}) {
        nodes {
          uuid
          path
          name
          systemName: property(name: "cl:systemName") { value }
          title: property(name: "jcr:title", language: $language) { value }
          description: property(name: "cl:description", language: $language) { value }
          children(typesFilter: {types: ["cl:controlledTerm"]}) {
            nodes {
              uuid
              path
              name
              termValue: property(name: "cl:value") { value }
              termLabel: property(name: "cl:label", language: $language) { value }
              termDescription: property(name: "cl:description", language: $language) { value }
            }
          }
        }
      }
    }
  }
}`

const languagesQuery = `
query SiteLanguages($sitePath: String!) {
  jcr {
    nodeByPath(path: $sitePath) {
      site {
        languages {
          displayName
          language
          activeInEdit
        }
      }
    }
  }
}`

const addNodeMutation = `
mutation AddNode($parentPath: String!, $name: String!, $type: String!, $properties: [InputJCRProperty]) {
  jcr(workspace: EDIT) {
    addNode(parentPathOrId: $parentPath, name: $name, primaryNodeType: $type, properties: $properties) {
      uuid
    }
  }
}`

const setPropertiesMutation = `
mutation SetProperties($path: String!, $properties: [InputJCRProperty]!) {
  jcr(workspace: EDIT) {
    mutateNode(pathOrId: $path) {
      setPropertiesBatch(properties: $properties) {
        property { name }
      }
    }
  }
}`

const deleteNodeMutation = `
mutation DeleteNode($path: String!) {
  jcr(workspace: EDIT) {
    deleteNode(pathOrId: $path)
  }
}`

const renameNodeMutation = `
mutation RenameNode($path: String!, $name: String!) {
  jcr(workspace: EDIT) {
    mutateNode(pathOrId: $path) {
      rename(name: $name)
    }
  }
}`

const reorderChildrenMutation = `
mutation ReorderChildren($path: String!, $names: [String]!) {
  jcr(workspace: EDIT) {
    mutateNode(pathOrId: $path) {
      reorderChildren(names: $names)
    }
  }
}`
