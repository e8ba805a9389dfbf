package sqlinline

const QSelectArticle = `--sql 6f7f2676-7f70-4dea-989e-f70b81c40b09
select id, title, body, created_at
from articles
where id = $1::uuid;
`
